package commands

import (
	"errors"

	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand asks to complete an order with a scanned QR payload
// presented by an authenticated deliverer.
//
// The payload is not checked here; malformed payloads are rejected by the
// handler with a decode reason so callers get a uniform result.
//
// Example:
//
//	cmd, err := NewConfirmDeliveryCommand("delivery_confirmation_tag:O1:abc123", deliverer)
//	result, err := handler.Handle(ctx, cmd)
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	payload   string
	decoded   *confirmation.DecodedConfirmation
	deliverer confirmation.Deliverer
	claimedID *string

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a command from a raw scanned payload.
func NewConfirmDeliveryCommand(payload string, deliverer confirmation.Deliverer) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}

	if err := cmd.setDeliverer(deliverer); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return cmd, nil
}

// NewConfirmDeliveryByCodeCommand creates a command from an order id and code the
// client already separated. An empty code is kept and fails validation later
// with code_mismatch. claimedDelivererID is the deliverer the client says it acts
// for; it must match the authenticated deliverer, which the handler checks in
// the deliverer_mismatch step.
func NewConfirmDeliveryByCodeCommand(
	orderID kernel.ID,
	code string,
	claimedDelivererID string,
	deliverer confirmation.Deliverer,
) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		claimedID: &claimedDelivererID,
		guard:     guard.NewConstructorGuard(),
	}

	decoded, err := confirmation.NewDecodedConfirmation(orderID, code)
	if err = errors.Join(err, cmd.setDeliverer(deliverer)); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	cmd.decoded = &decoded
	return cmd, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// Payload returns the raw payload, empty for commands built from an order id and code.
func (c ConfirmDeliveryCommand) Payload() string {
	return c.payload
}

func (c ConfirmDeliveryCommand) Deliverer() confirmation.Deliverer {
	return c.deliverer
}

// ClaimedDelivererID returns the deliverer id named by the client, if any.
func (c ConfirmDeliveryCommand) ClaimedDelivererID() (string, bool) {
	if c.claimedID == nil {
		return "", false
	}
	return *c.claimedID, true
}

// Decode returns the order id and secret the command refers to.
func (c ConfirmDeliveryCommand) Decode() (confirmation.DecodedConfirmation, error) {
	if c.decoded != nil {
		return *c.decoded, nil
	}
	return confirmation.Decode(c.payload)
}

func (c *ConfirmDeliveryCommand) setDeliverer(deliverer confirmation.Deliverer) error {
	if err := deliverer.Validate(); err != nil {
		return err
	}

	c.deliverer = deliverer
	return nil
}
