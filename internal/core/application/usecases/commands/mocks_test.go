package commands_test

import (
	"context"
	"time"

	"deliveryconfirm/internal/core/application/usecases/commands"
	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) CompareAndSetStatus(
	ctx context.Context,
	id kernel.ID,
	expected order.Status,
	next order.Status,
	at time.Time,
) (*order.Order, error) {
	args := m.Called(ctx, id, expected, next, at)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockDeliveryEventRepository struct{ mock.Mock }

func (m *MockDeliveryEventRepository) Add(ctx context.Context, e order.DeliveredEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockDeliveryEventRepository) GetUnpublished(ctx context.Context, limit int) ([]order.DeliveredEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]order.DeliveredEvent)
	return events, args.Error(1)
}

func (m *MockDeliveryEventRepository) MarkPublished(ctx context.Context, id kernel.ID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockTxManager struct{ mock.Mock }

func (m *MockTxManager) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTxManager) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockUoW implements every unit of work flavour used by the handlers.
type MockUoW struct{ MockTxManager }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DeliveryEventRepository() ports.DeliveryEventRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryEventRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockDeliveryEventUoWFactory struct{ mock.Mock }

func (m *MockDeliveryEventUoWFactory) Create() commands.DeliveryEventUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryEventUoW)
}

type MockDeliveryEventPublisher struct{ mock.Mock }

func (m *MockDeliveryEventPublisher) Publish(ctx context.Context, e order.DeliveredEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockCodeGenerator struct{ mock.Mock }

func (m *MockCodeGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}
