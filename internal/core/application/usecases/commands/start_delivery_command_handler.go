package commands

import (
	"context"

	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/order"
)

// CodeGenerator issues confirmation codes.
type CodeGenerator interface {
	Generate() string
}

// StartDeliveryResult carries the issued code and the compact payload to print
// in the QR code handed to the recipient.
type StartDeliveryResult struct {
	Order   *order.Order
	Code    string
	Payload string
}

// StartDeliveryCommandHandler moves Assigned orders out for delivery.
type StartDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	codes      CodeGenerator
	clock      Clock
}

func NewStartDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	codes CodeGenerator,
	clock Clock,
) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
		codes:      codes,
		clock:      clock,
	}
}

// Handle fails with confirmation.ErrNotADeliverer for identities without the
// deliverer role and order.ErrDelivererIsNotAssigned for anyone but the
// assigned deliverer.
func (h *StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) (StartDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return StartDeliveryResult{}, err
	}

	if !cmd.Deliverer().IsDeliverer() {
		return StartDeliveryResult{}, confirmation.Reject(confirmation.ReasonNotADeliverer)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return StartDeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return StartDeliveryResult{}, err
	}

	code := h.codes.Generate()
	if err = o.StartDelivery(cmd.Deliverer().ID(), code, h.clock()); err != nil {
		return StartDeliveryResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return StartDeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return StartDeliveryResult{}, err
	}

	return StartDeliveryResult{
		Order:   o,
		Code:    code,
		Payload: confirmation.CompactPayload{OrderID: o.ID().String(), Code: code}.String(),
	}, nil
}
