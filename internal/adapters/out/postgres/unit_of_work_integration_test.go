package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "deliveryconfirm/internal/adapters/out/postgres"
	"deliveryconfirm/internal/adapters/out/postgres/deliveryeventrepo"
	"deliveryconfirm/internal/adapters/out/postgres/orderrepo"
	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// UnitOfWorkIntegrationTestSuite exercises GormUnitOfWork against PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &deliveryeventrepo.DeliveryEventDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, delivery_events").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.DeliveryEventRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

// TestUnitOfWork_ConfirmationCommitsStatusAndEventTogether mirrors the
// confirmation flow: CAS plus outbox insert in one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConfirmationCommitsStatusAndEventTogether() {
	ctx := context.Background()
	o := suite.seedOutForDelivery("O1", "D1")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	delivered, err := uow.OrderRepository().CompareAndSetStatus(ctx, o.ID(), order.OutForDelivery, order.Delivered, now)
	suite.Require().NoError(err)
	event, err := order.NewDeliveredEvent(delivered.ID(), *delivered.Deliverer(), order.OutForDelivery, now)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.DeliveryEventRepository().Add(ctx, event))

	suite.Require().NoError(uow.Commit(ctx))
	suite.Equal(order.Delivered, delivered.Status())

	reader := suite.factory.Create()
	stored, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Delivered, stored.Status())

	events, err := reader.DeliveryEventRepository().GetUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(events, 1)
	suite.Equal(event.ID(), events[0].ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_Rollback_DiscardsStatusAndEvent() {
	ctx := context.Background()
	o := suite.seedOutForDelivery("O1", "D1")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	_, err := uow.OrderRepository().CompareAndSetStatus(ctx, o.ID(), order.OutForDelivery, order.Delivered, now)
	suite.Require().NoError(err)
	event, err := order.NewDeliveredEvent(o.ID(), *o.Deliverer(), order.OutForDelivery, now)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.DeliveryEventRepository().Add(ctx, event))

	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create()
	stored, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.OutForDelivery, stored.Status())

	events, err := reader.DeliveryEventRepository().GetUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(events)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1, err := order.NewOrder(kernel.NewID(), now)
	suite.Require().NoError(err)
	order2, err := order.NewOrder(kernel.NewID(), now)
	suite.Require().NoError(err)

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "UOW1 should not see order2")
	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "UOW2 should not see order1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	reader := suite.factory.Create()
	_, err = reader.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")
	_, err = reader.OrderRepository().Get(ctx, order2.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "Order2 should not persist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()
	o, err := order.NewOrder(kernel.NewID(), now)
	suite.Require().NoError(err)

	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(o.IsEqual(retrieved))
}

// seedOutForDelivery commits an order waiting for confirmation.
func (suite *UnitOfWorkIntegrationTestSuite) seedOutForDelivery(id, delivererID string) *order.Order {
	deliverer := kernel.MustIDFromString(delivererID)
	code := "SECRET"
	o, err := order.RestoreOrder(kernel.MustIDFromString(id), order.OutForDelivery, &deliverer, &code, now, now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(context.Background(), o))
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
