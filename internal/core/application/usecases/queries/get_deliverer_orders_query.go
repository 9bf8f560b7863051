package queries

import (
	"errors"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/pkg/guard"
)

var ErrGetDelivererOrdersQueryIsNotConstructed = errors.New(
	"GetDelivererOrdersQuery must be created via NewGetDelivererOrdersQuery constructor",
)

// GetDelivererOrdersQuery lists the orders assigned to a deliverer, optionally
// restricted to some statuses.
//
// Example:
//
//	query, _ := NewGetDelivererOrdersQuery(delivererID, order.OutForDelivery)
//	views, err := handler.Handle(ctx, query)
type GetDelivererOrdersQuery struct {
	delivererID kernel.ID
	statuses    []order.Status

	guard guard.ConstructorGuard
}

func NewGetDelivererOrdersQuery(delivererID kernel.ID, statuses ...order.Status) (GetDelivererOrdersQuery, error) {
	if err := delivererID.Validate(); err != nil {
		return GetDelivererOrdersQuery{}, err
	}
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			return GetDelivererOrdersQuery{}, err
		}
	}

	return GetDelivererOrdersQuery{
		delivererID: delivererID,
		statuses:    append([]order.Status(nil), statuses...),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q GetDelivererOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetDelivererOrdersQueryIsNotConstructed)
}

func (q GetDelivererOrdersQuery) DelivererID() kernel.ID {
	return q.delivererID
}

// Statuses returns the status filter; empty means every status.
func (q GetDelivererOrdersQuery) Statuses() []order.Status {
	return append([]order.Status(nil), q.statuses...)
}
