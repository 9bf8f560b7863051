// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"time"

	"deliveryconfirm/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DeliveryEventRepoFactory provides access to the outbox within a transaction.
	DeliveryEventRepoFactory interface {
		DeliveryEventRepository() ports.DeliveryEventRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DeliveryEventUoW manages transactions over the outbox only.
	DeliveryEventUoW interface {
		TxManager
		DeliveryEventRepoFactory
	}

	// DeliveryEventUoWFactory creates new outbox unit of work instances.
	DeliveryEventUoWFactory interface {
		Create() DeliveryEventUoW
	}

	// UoW spans orders and the outbox. Used when a status change and the event
	// announcing it must commit together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().CompareAndSetStatus(ctx, id, order.OutForDelivery, order.Delivered, now)
	//   err = uow.DeliveryEventRepository().Add(ctx, event)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		DeliveryEventRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-repository operations.
	UoWFactory interface {
		Create() UoW
	}
)

// Clock returns the current time. Handlers stamp every change with it.
type Clock func() time.Time

// SystemClock is the Clock used outside of tests.
func SystemClock() time.Time {
	return time.Now().UTC()
}
