package services

import (
	"crypto/subtle"

	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
)

// Acceptance is the outcome of a successful validation.
type Acceptance struct {
	OrderID     kernel.ID
	DelivererID kernel.ID
}

// ConfirmationValidator decides whether a deliverer may confirm an order with a
// decoded QR payload.
//
// Checks run in a fixed order and the first failure wins:
//  1. the order exists (order_not_found)
//  2. the identity holds the deliverer role (not_a_deliverer)
//  3. the identity is the assigned deliverer (deliverer_mismatch)
//  4. the order is out for delivery (invalid_order_status)
//  5. the stored code equals the presented secret (code_mismatch)
//
// The secret is only compared once every identity check has passed, so guessing
// codes for orders the caller has no claim to reveals nothing about the codes.
//
// Example:
//
//	acceptance, err := services.NewConfirmationValidator().Validate(decoded, deliverer, o)
//	if errors.Is(err, confirmation.ErrCodeMismatch) {
//	    // wrong QR code
//	}
type ConfirmationValidator struct{}

func NewConfirmationValidator() ConfirmationValidator {
	return ConfirmationValidator{}
}

// Validate returns a *confirmation.RejectionError on failure. A nil o means the
// repository found no order for decoded.OrderID().
func (v ConfirmationValidator) Validate(
	decoded confirmation.DecodedConfirmation,
	deliverer confirmation.Deliverer,
	o *order.Order,
) (Acceptance, error) {
	return v.validate(decoded, deliverer, nil, o)
}

// ValidateClaim is Validate for requests that also name the deliverer they act
// for. A claimed id other than the authenticated one fails the assignment
// check with deliverer_mismatch, after the existence and role checks.
func (v ConfirmationValidator) ValidateClaim(
	decoded confirmation.DecodedConfirmation,
	deliverer confirmation.Deliverer,
	claimedDelivererID string,
	o *order.Order,
) (Acceptance, error) {
	return v.validate(decoded, deliverer, &claimedDelivererID, o)
}

func (ConfirmationValidator) validate(
	decoded confirmation.DecodedConfirmation,
	deliverer confirmation.Deliverer,
	claimedDelivererID *string,
	o *order.Order,
) (Acceptance, error) {
	if o == nil {
		return Acceptance{}, confirmation.Reject(confirmation.ReasonOrderNotFound)
	}

	if !deliverer.IsDeliverer() {
		return Acceptance{}, confirmation.Reject(confirmation.ReasonNotADeliverer)
	}

	if claimedDelivererID != nil && *claimedDelivererID != deliverer.ID().String() {
		return Acceptance{}, confirmation.Reject(confirmation.ReasonDelivererMismatch)
	}

	if !o.IsAssignedTo(deliverer.ID()) {
		return Acceptance{}, confirmation.Reject(confirmation.ReasonDelivererMismatch)
	}

	if o.Status() != order.OutForDelivery {
		return Acceptance{}, confirmation.RejectInvalidStatus(o.Status())
	}

	if !codeMatches(o.ConfirmationCode(), decoded) {
		return Acceptance{}, confirmation.Reject(confirmation.ReasonCodeMismatch)
	}

	return Acceptance{
		OrderID:     o.ID(),
		DelivererID: deliverer.ID(),
	}, nil
}

// codeMatches compares exactly, without normalization.
func codeMatches(stored *string, decoded confirmation.DecodedConfirmation) bool {
	secret, ok := decoded.Secret()
	if stored == nil || !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(secret)) == 1
}
