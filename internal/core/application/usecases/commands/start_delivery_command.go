package commands

import (
	"errors"

	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/pkg/guard"
)

var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

// StartDeliveryCommand is issued by the assigned deliverer when leaving with the
// order. It issues the confirmation code the recipient receives as a QR code.
type StartDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.ID
	deliverer confirmation.Deliverer

	guard guard.ConstructorGuard
}

func NewStartDeliveryCommand(orderID kernel.ID, deliverer confirmation.Deliverer) (StartDeliveryCommand, error) {
	if err := errors.Join(orderID.Validate(), deliverer.Validate()); err != nil {
		return StartDeliveryCommand{}, err
	}

	return StartDeliveryCommand{
		orderID:   orderID,
		deliverer: deliverer,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

func (c StartDeliveryCommand) OrderID() kernel.ID {
	return c.orderID
}

func (c StartDeliveryCommand) Deliverer() confirmation.Deliverer {
	return c.deliverer
}
