// Package queries contains read-only operations of the CQRS architecture.
// Handlers read straight from the database and return flat views; they never
// load aggregates.
package queries

import (
	"time"

	"deliveryconfirm/internal/core/domain/model/order"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect
)

const (
	dialectPostgres = "postgres"

	tableOrders = "orders"

	colID               = "id"
	colDelivererID      = "deliverer_id"
	colStatus           = "status"
	colConfirmationCode = "confirmation_code"
	colUpdatedAt        = "updated_at"
)

// OrderView is the read model of an order. The confirmation code itself is
// never exposed, only whether one was issued.
type OrderView struct {
	ID                  string
	Status              order.Status
	DelivererID         *string
	HasConfirmationCode bool
	UpdatedAt           time.Time
}
