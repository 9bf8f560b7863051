package commands

import (
	"context"
	"errors"

	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/core/domain/services"
	"deliveryconfirm/internal/core/ports"
	"deliveryconfirm/internal/pkg/errs"
)

// Transition is the result of an applied confirmation.
type Transition struct {
	// Order is the order as stored after the transition.
	Order *order.Order

	// Event must be recorded in the same transaction as the status change.
	Event order.DeliveredEvent
}

// OrderStateMachine applies accepted confirmations. The status change is a
// compare-and-set against the stored status, so of two concurrent confirmations
// for the same order exactly one succeeds.
type OrderStateMachine struct {
	clock Clock
}

func NewOrderStateMachine(clock Clock) OrderStateMachine {
	return OrderStateMachine{clock: clock}
}

// ApplyConfirmation moves the accepted order from expected to Delivered.
// Losing the race fails with confirmation.ErrAlreadyDelivered.
func (m OrderStateMachine) ApplyConfirmation(
	ctx context.Context,
	repo ports.OrderRepository,
	acceptance services.Acceptance,
	expected order.Status,
) (Transition, error) {
	next, err := expected.Deliver()
	if err != nil {
		return Transition{}, err
	}

	at := m.clock()
	updated, err := repo.CompareAndSetStatus(ctx, acceptance.OrderID, expected, next, at)
	switch {
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return Transition{}, confirmation.RejectWithCause(confirmation.ReasonAlreadyDelivered, err)
	case errors.Is(err, errs.ErrObjectNotFound):
		return Transition{}, confirmation.RejectWithCause(confirmation.ReasonOrderNotFound, err)
	case err != nil:
		return Transition{}, err
	}

	event, err := order.NewDeliveredEvent(acceptance.OrderID, acceptance.DelivererID, expected, at)
	if err != nil {
		return Transition{}, err
	}

	return Transition{Order: updated, Event: event}, nil
}
