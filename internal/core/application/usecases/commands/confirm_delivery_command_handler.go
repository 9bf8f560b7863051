package commands

import (
	"context"
	"errors"

	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/core/domain/services"
	"deliveryconfirm/internal/pkg/errs"
)

// ConfirmDeliveryResult carries the delivered order.
type ConfirmDeliveryResult struct {
	Order *order.Order
	Event order.DeliveredEvent
}

// ConfirmDeliveryCommandHandler runs the confirmation protocol: decode the
// payload, load the order, validate, apply the transition and record the
// delivered event, all in one transaction.
//
// Protocol failures are returned as *confirmation.RejectionError. Any other error
// comes from infrastructure, leaves the order untouched and may be retried by
// the caller.
//
// Example:
//
//	handler := NewConfirmDeliveryCommandHandler(uowFactory, services.NewConfirmationValidator(), NewOrderStateMachine(SystemClock))
//	result, err := handler.Handle(ctx, cmd)
//	if rejection, ok := confirmation.AsRejection(err); ok {
//	    // report rejection.Reason to the deliverer
//	}
type ConfirmDeliveryCommandHandler struct {
	uowFactory   UoWFactory
	validator    services.ConfirmationValidator
	stateMachine OrderStateMachine
}

func NewConfirmDeliveryCommandHandler(
	uowFactory UoWFactory,
	validator services.ConfirmationValidator,
	stateMachine OrderStateMachine,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory:   uowFactory,
		validator:    validator,
		stateMachine: stateMachine,
	}
}

func (h *ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (ConfirmDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConfirmDeliveryResult{}, err
	}

	decoded, err := cmd.Decode()
	if err != nil {
		return ConfirmDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ConfirmDeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, decoded.OrderID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return ConfirmDeliveryResult{}, err
	}

	var acceptance services.Acceptance
	if claimed, ok := cmd.ClaimedDelivererID(); ok {
		acceptance, err = h.validator.ValidateClaim(decoded, cmd.Deliverer(), claimed, o)
	} else {
		acceptance, err = h.validator.Validate(decoded, cmd.Deliverer(), o)
	}
	if err != nil {
		return ConfirmDeliveryResult{}, err
	}

	transition, err := h.stateMachine.ApplyConfirmation(ctx, orderRepo, acceptance, order.OutForDelivery)
	if err != nil {
		return ConfirmDeliveryResult{}, err
	}

	if err = uow.DeliveryEventRepository().Add(ctx, transition.Event); err != nil {
		return ConfirmDeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ConfirmDeliveryResult{}, err
	}

	return ConfirmDeliveryResult{Order: transition.Order, Event: transition.Event}, nil
}
