package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per use case invocation.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one database transaction spanning the order table and the
// delivery event outbox. Repositories obtained from it share the transaction
// once Begin has been called.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when no transaction is open.
	Commit(ctx context.Context) error

	// Rollback fails when no transaction is open, which makes it safe to defer
	// after a Commit.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	DeliveryEventRepository() DeliveryEventRepository
}
