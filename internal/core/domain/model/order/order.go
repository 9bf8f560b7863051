package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrDelivererIsNotAssigned is returned when someone other than the assigned
	// deliverer tries to act on the order.
	ErrDelivererIsNotAssigned = errors.New("deliverer is not assigned to the order")
)

// Order represents a delivery order. It is the aggregate root that manages the
// order lifecycle from creation through hand-over to the recipient.
//
// Order follows these invariants:
//   - Must have a valid identifier
//   - Deliverer presence matches Status.ValidateCanHaveDeliverer
//   - Confirmation code presence matches Status.ValidateCanHaveCode
//   - Confirmation codes are non-empty and never contain ':'
type Order struct {
	id kernel.ID

	// delivererID is the assigned deliverer (nil while pending)
	delivererID *kernel.ID

	// confirmationCode is the secret printed in the QR code (nil until out for delivery)
	confirmationCode *string

	status    Status
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a Pending order with no deliverer and no confirmation code.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewID(), time.Now())
func NewOrder(id kernel.ID, now time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := o.setID(id); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state. All invariants are
// re-checked so that corrupted rows never surface as valid aggregates.
func RestoreOrder(
	id kernel.ID,
	status Status,
	delivererID *kernel.ID,
	confirmationCode *string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt:     createdAt.UTC(),
		updatedAt:     updatedAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setStatus(status, delivererID, confirmationCode),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.ID {
	return o.id
}

func (o *Order) Status() Status {
	return o.status
}

// Deliverer returns the assigned deliverer, or nil while pending.
func (o *Order) Deliverer() *kernel.ID {
	if o.delivererID == nil {
		return nil
	}
	id := *o.delivererID
	return &id
}

// ConfirmationCode returns the stored code, or nil when none was issued.
func (o *Order) ConfirmationCode() *string {
	if o.confirmationCode == nil {
		return nil
	}
	code := *o.confirmationCode
	return &code
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsAssignedTo reports whether the given deliverer is the assigned one.
func (o *Order) IsAssignedTo(delivererID kernel.ID) bool {
	return o.delivererID != nil && o.delivererID.IsEqual(delivererID)
}

// Assign assigns the order to a deliverer; reassignment is allowed while the
// order is still Assigned.
func (o *Order) Assign(delivererID kernel.ID, now time.Time) error {
	if err := delivererID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.delivererID = &delivererID
	o.touch(now)
	return nil
}

// StartDelivery moves the order out for delivery and stores the confirmation
// code the recipient will present. Only the assigned deliverer may do this.
func (o *Order) StartDelivery(delivererID kernel.ID, code string, now time.Time) error {
	if err := delivererID.Validate(); err != nil {
		return err
	}
	if !o.IsAssignedTo(delivererID) {
		return ErrDelivererIsNotAssigned
	}
	if err := ValidateConfirmationCode(code); err != nil {
		return err
	}

	newStatus, err := o.status.StartDelivery()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.confirmationCode = &code
	o.touch(now)
	return nil
}

// Deliver marks the order as Delivered. The confirmation code is kept.
//
// Callers persisting the result must do so conditionally on the previous
// status; see ports.OrderRepository.CompareAndSetStatus.
func (o *Order) Deliver(now time.Time) error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch(now)
	return nil
}

// Cancel abandons a non-terminal order. Deliverer and code are left as they were.
func (o *Order) Cancel(now time.Time) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch(now)
	return nil
}

// ValidateConfirmationCode checks the shape of a confirmation code. Codes are
// embedded in the compact QR form, so the ':' separator is forbidden.
func ValidateConfirmationCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("confirmation code")
	}
	if strings.Contains(code, ":") {
		return errs.NewValueIsInvalidErrorWithCause("confirmation code is invalid", fmt.Errorf("%q contains ':'", code))
	}
	return nil
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
}

func (o *Order) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status Status, delivererID *kernel.ID, code *string) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if delivererID != nil {
		if err := delivererID.Validate(); err != nil {
			return err
		}
	}
	if code != nil {
		if err := ValidateConfirmationCode(*code); err != nil {
			return err
		}
	}
	if err := errors.Join(
		status.ValidateCanHaveDeliverer(delivererID != nil),
		status.ValidateCanHaveCode(code != nil),
	); err != nil {
		return err
	}

	o.status = status
	o.delivererID = delivererID
	o.confirmationCode = code
	return nil
}
