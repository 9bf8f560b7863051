package order

import (
	"fmt"

	"deliveryconfirm/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Assigned ──> OutForDelivery ──> Delivered
//	   │          │  ▲             │
//	   │          └──┘ (reassign)  │
//	   └──────────┴────────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status; no deliverer is assigned yet.
	Pending

	// Assigned indicates a deliverer has been assigned. Reassignment is allowed.
	Assigned

	// OutForDelivery indicates the deliverer is carrying the order and a
	// confirmation code has been issued to the recipient.
	OutForDelivery

	// Delivered is the terminal status reached through a confirmed handover.
	Delivered

	// Cancelled is the terminal status of an abandoned order.
	Cancelled
)

var statusStrings = map[Status]string{
	Pending:        "pending",
	Assigned:       "assigned",
	OutForDelivery: "out_for_delivery",
	Delivered:      "delivered",
	Cancelled:      "cancelled",
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Assigned, OutForDelivery, Delivered, Cancelled}
}

// ParseStatus converts the wire form ("out_for_delivery") back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range statusStrings {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a known status", s))
}

// Validate checks that the Status is one of the defined lifecycle states.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := statusStrings[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire form of the status, or "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateCanHaveDeliverer checks the consistency between the status and
// deliverer assignment:
//   - Pending orders must not have a deliverer
//   - Assigned, OutForDelivery and Delivered orders must have one
//   - Cancelled orders may or may not have one
func (s Status) ValidateCanHaveDeliverer(deliverer bool) error {
	if deliverer && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a deliverer", s),
		)
	}

	if !deliverer && (s == Assigned || s == OutForDelivery || s == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no deliverer", s),
		)
	}

	return nil
}

// ValidateCanHaveCode checks the consistency between the status and the
// confirmation code:
//   - Pending and Assigned orders must not have a code
//   - OutForDelivery orders must have one
//   - Delivered orders keep the code that confirmed them
//   - Cancelled orders may or may not have one
func (s Status) ValidateCanHaveCode(code bool) error {
	if code && (s == Pending || s == Assigned) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a confirmation code", s),
		)
	}

	if !code && (s == OutForDelivery || s == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no confirmation code", s),
		)
	}

	return nil
}

// Assign transitions Pending or Assigned to Assigned.
func (s Status) Assign() (Status, error) {
	if s != Pending && s != Assigned {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign", s),
		)
	}

	return Assigned, nil
}

// StartDelivery transitions Assigned to OutForDelivery.
func (s Status) StartDelivery() (Status, error) {
	if s != Assigned {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start delivery", s),
		)
	}

	return OutForDelivery, nil
}

// Deliver transitions OutForDelivery to Delivered.
// This is the only path into Delivered.
func (s Status) Deliver() (Status, error) {
	if s != OutForDelivery {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s),
		)
	}

	return Delivered, nil
}

// Cancel transitions any non-terminal status to Cancelled.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s),
		)
	}

	return Cancelled, nil
}
