package commands

import (
	"context"
)

// AssignDelivererCommandHandler moves Pending or Assigned orders to Assigned.
type AssignDelivererCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

func NewAssignDelivererCommandHandler(uowFactory OrderUoWFactory, clock Clock) AssignDelivererCommandHandler {
	return AssignDelivererCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *AssignDelivererCommandHandler) Handle(ctx context.Context, cmd AssignDelivererCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.Assign(cmd.DelivererID(), h.clock()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
