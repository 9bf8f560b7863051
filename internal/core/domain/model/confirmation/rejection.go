package confirmation

import (
	"errors"
	"fmt"

	"deliveryconfirm/internal/core/domain/model/order"
)

// Reason identifies why a confirmation was rejected. The values are part of the
// public API and are returned verbatim to clients.
type Reason string

const (
	ReasonUnrecognizedFormat Reason = "unrecognized_format"
	ReasonMissingOrderID     Reason = "missing_order_id"
	ReasonOrderNotFound      Reason = "order_not_found"
	ReasonNotADeliverer      Reason = "not_a_deliverer"
	ReasonDelivererMismatch  Reason = "deliverer_mismatch"
	ReasonInvalidOrderStatus Reason = "invalid_order_status"
	ReasonCodeMismatch       Reason = "code_mismatch"
	ReasonAlreadyDelivered   Reason = "already_delivered"
)

// Kind groups reasons by how a caller should react to them.
type Kind string

const (
	// KindDecode means the payload was malformed; the scan may be retried.
	KindDecode Kind = "decode"
	// KindValidation means a business rule failed; never retried automatically.
	KindValidation Kind = "validation"
	// KindConflict means a concurrent confirmation won the race.
	KindConflict Kind = "conflict"
)

// Kind returns the category of the reason.
func (r Reason) Kind() Kind {
	switch r {
	case ReasonUnrecognizedFormat, ReasonMissingOrderID:
		return KindDecode
	case ReasonAlreadyDelivered:
		return KindConflict
	default:
		return KindValidation
	}
}

func (r Reason) String() string {
	return string(r)
}

// Sentinels for errors.Is. A *RejectionError matches the sentinel of its reason.
var (
	ErrUnrecognizedFormat = &RejectionError{Reason: ReasonUnrecognizedFormat}
	ErrMissingOrderID     = &RejectionError{Reason: ReasonMissingOrderID}
	ErrOrderNotFound      = &RejectionError{Reason: ReasonOrderNotFound}
	ErrNotADeliverer      = &RejectionError{Reason: ReasonNotADeliverer}
	ErrDelivererMismatch  = &RejectionError{Reason: ReasonDelivererMismatch}
	ErrInvalidOrderStatus = &RejectionError{Reason: ReasonInvalidOrderStatus}
	ErrCodeMismatch       = &RejectionError{Reason: ReasonCodeMismatch}
	ErrAlreadyDelivered   = &RejectionError{Reason: ReasonAlreadyDelivered}
)

// RejectionError is the typed failure of every step of the protocol.
type RejectionError struct {
	Reason Reason

	// Status is the order status observed when Reason is ReasonInvalidOrderStatus.
	Status order.Status

	// Cause is an optional lower-level error, e.g. the JSON syntax error.
	Cause error
}

// Reject builds a rejection for reason.
func Reject(reason Reason) *RejectionError {
	return &RejectionError{Reason: reason}
}

// RejectWithCause builds a rejection carrying the error that triggered it.
func RejectWithCause(reason Reason, cause error) *RejectionError {
	return &RejectionError{Reason: reason, Cause: cause}
}

// RejectInvalidStatus builds an invalid_order_status rejection carrying current.
func RejectInvalidStatus(current order.Status) *RejectionError {
	return &RejectionError{Reason: ReasonInvalidOrderStatus, Status: current}
}

func (e *RejectionError) Kind() Kind {
	return e.Reason.Kind()
}

func (e *RejectionError) Error() string {
	msg := "confirmation rejected: " + string(e.Reason)
	if e.Reason == ReasonInvalidOrderStatus && e.Status != order.Unknown {
		msg = fmt.Sprintf("%s (order is %s)", msg, e.Status)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Is matches any *RejectionError with the same reason.
func (e *RejectionError) Is(target error) bool {
	other, ok := target.(*RejectionError)
	return ok && other.Reason == e.Reason
}

func (e *RejectionError) Unwrap() error {
	return e.Cause
}

// AsRejection extracts a *RejectionError from err.
func AsRejection(err error) (*RejectionError, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}
