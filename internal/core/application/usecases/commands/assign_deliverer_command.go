package commands

import (
	"errors"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/pkg/guard"
)

var ErrAssignDelivererCommandIsNotConstructed = errors.New(
	"AssignDelivererCommand must be created via NewAssignDelivererCommand constructor",
)

// AssignDelivererCommand assigns (or reassigns) a deliverer to an order.
type AssignDelivererCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.ID
	delivererID kernel.ID

	guard guard.ConstructorGuard
}

func NewAssignDelivererCommand(orderID, delivererID kernel.ID) (AssignDelivererCommand, error) {
	if err := errors.Join(orderID.Validate(), delivererID.Validate()); err != nil {
		return AssignDelivererCommand{}, err
	}

	return AssignDelivererCommand{
		orderID:     orderID,
		delivererID: delivererID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDelivererCommand) Validate() error {
	return c.guard.Validate(ErrAssignDelivererCommandIsNotConstructed)
}

func (c AssignDelivererCommand) OrderID() kernel.ID {
	return c.orderID
}

func (c AssignDelivererCommand) DelivererID() kernel.ID {
	return c.delivererID
}
