package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpin "deliveryconfirm/internal/adapters/in/http"
	"deliveryconfirm/internal/adapters/out/messaging/logpub"
	"deliveryconfirm/internal/adapters/out/messaging/rabbitpub"
	"deliveryconfirm/internal/adapters/out/messaging/redispub"
	"deliveryconfirm/internal/adapters/out/postgres"
	"deliveryconfirm/internal/core/application/usecases/commands"
	"deliveryconfirm/internal/core/application/usecases/queries"
	"deliveryconfirm/internal/core/domain/services"
	"deliveryconfirm/internal/core/ports"
	"deliveryconfirm/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	publisher  ports.DeliveryEventPublisher
	closers    []func() error
	logger     *slog.Logger
}

// NewCompositionRoot connects the event broker selected by EVENT_BROKER.
// Close releases it.
func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	switch config.EventBroker {
	case BrokerRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.publisher = redispub.NewPublisher(client)
		c.closers = append(c.closers, client.Close)
	case BrokerRabbitMQ:
		p, err := rabbitpub.Dial(config.RabbitMQURL, config.RabbitMQQueue)
		if err != nil {
			return nil, err
		}
		c.publisher = p
		c.closers = append(c.closers, p.Close)
	case BrokerLog:
		c.publisher = logpub.NewPublisher(logger)
	default:
		return nil, fmt.Errorf("unsupported event broker %q", config.EventBroker)
	}

	return c, nil
}

// Close releases the broker connection.
func (c *CompositionRoot) Close() error {
	var err error
	for _, closeFn := range c.closers {
		err = errors.Join(err, closeFn())
	}
	return err
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmDeliveryCommandHandler(
		f,
		services.NewConfirmationValidator(),
		commands.NewOrderStateMachine(commands.SystemClock),
	)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), commands.SystemClock)
}

func (c *CompositionRoot) CreateAssignDelivererCommandHandler() commands.AssignDelivererCommandHandler {
	return commands.NewAssignDelivererCommandHandler(c.orderUoWFactory(), commands.SystemClock)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(
		c.orderUoWFactory(),
		services.NewConfirmationCodeGenerator(),
		commands.SystemClock,
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), commands.SystemClock)
}

func (c *CompositionRoot) CreateRelayDeliveryEventsCommandHandler() commands.RelayDeliveryEventsCommandHandler {
	var f commands.DeliveryEventUoWFactory = FuncDeliveryEventUoWFactory(func() commands.DeliveryEventUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayDeliveryEventsCommandHandler(f, c.publisher, commands.SystemClock)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDelivererOrdersQueryHandler() queries.GetDelivererOrdersQueryHandler {
	return queries.NewGetDelivererOrdersQueryHandler(c.gormDB)
}

// CreateHTTPHandlers collects the use cases served over HTTP.
func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	confirmDelivery := c.CreateConfirmDeliveryCommandHandler()
	createOrder := c.CreateCreateOrderCommandHandler()
	assignDeliverer := c.CreateAssignDelivererCommandHandler()
	startDelivery := c.CreateStartDeliveryCommandHandler()
	cancelOrder := c.CreateCancelOrderCommandHandler()
	getOrder := c.CreateGetOrderQueryHandler()
	getDelivererOrders := c.CreateGetDelivererOrdersQueryHandler()

	return httpin.Handlers{
		ConfirmDelivery:    &confirmDelivery,
		CreateOrder:        &createOrder,
		AssignDeliverer:    &assignDeliverer,
		StartDelivery:      &startDelivery,
		CancelOrder:        &cancelOrder,
		GetOrder:           &getOrder,
		GetDelivererOrders: &getDelivererOrders,
	}
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	cmd, err := commands.NewRelayDeliveryEventsCommand(c.config.OutboxBatchSize)
	if err != nil {
		return nil, err
	}

	relayHandler := c.CreateRelayDeliveryEventsCommandHandler()
	relay := jobs.NewDeliveryEventsRelayJob(&relayHandler, cmd, c.config.OutboxRelaySchedule, c.logger)
	return jobs.NewJobManager(relay), nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncDeliveryEventUoWFactory func() commands.DeliveryEventUoW

func (f FuncDeliveryEventUoWFactory) Create() commands.DeliveryEventUoW {
	return f()
}
