// Package ports defines the contracts between the core and its infrastructure:
// persistence of orders and delivery events, event publishing and transaction
// boundaries.
package ports

import (
	"context"
	"time"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// Callers must have loaded the order with GetForUpdate in the same transaction.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by identifier.
	// Returns *errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.ID) (*order.Order, error)

	// GetForUpdate is Get with a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error)

	// CompareAndSetStatus sets the status to next and stamps updatedAt, but only
	// if the stored status still equals expected. Returns the updated order, or
	// *errs.ConcurrencyConflictError when the stored status differs and
	// *errs.ObjectNotFoundError when the order does not exist.
	CompareAndSetStatus(
		ctx context.Context,
		id kernel.ID,
		expected order.Status,
		next order.Status,
		at time.Time,
	) (*order.Order, error)
}
