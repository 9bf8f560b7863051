package confirmation

import (
	"errors"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/pkg/guard"
)

const (
	// StructuredType is the value of the "type" field of a structured payload.
	StructuredType = "delivery_confirmation"

	// CompactPrefix is the first segment of a compact payload.
	CompactPrefix = "delivery_confirmation_tag"

	// CompactSeparator separates the segments of a compact payload.
	CompactSeparator = ":"
)

// Format is the discriminant of QRPayload.
type Format int

const (
	FormatUnknown Format = iota
	FormatStructured
	FormatCompact
)

func (f Format) String() string {
	switch f {
	case FormatStructured:
		return "structured"
	case FormatCompact:
		return "compact"
	default:
		return "unknown"
	}
}

// QRPayload is the parsed content of a QR code: either a StructuredPayload or a
// CompactPayload. The set of implementations is closed.
type QRPayload interface {
	Format() Format
	confirmation() (DecodedConfirmation, error)
}

// StructuredPayload is the JSON form of a QR code.
type StructuredPayload struct {
	OrderID string
	Type    string

	// Hash is nil when the payload carries no usable "hash" field.
	Hash *string

	// Timestamp is the issue time in epoch milliseconds. Informational only.
	Timestamp int64
}

func (StructuredPayload) Format() Format { return FormatStructured }

func (p StructuredPayload) confirmation() (DecodedConfirmation, error) {
	orderID, err := kernel.IDFromString(p.OrderID)
	if err != nil {
		return DecodedConfirmation{}, RejectWithCause(ReasonMissingOrderID, err)
	}

	secret := ""
	if p.Hash != nil {
		secret = *p.Hash
	}
	return newDecodedConfirmation(orderID, secret, FormatStructured), nil
}

// CompactPayload is the delimited form of a QR code.
type CompactPayload struct {
	OrderID string
	Code    string
}

func (CompactPayload) Format() Format { return FormatCompact }

func (p CompactPayload) confirmation() (DecodedConfirmation, error) {
	orderID, err := kernel.IDFromString(p.OrderID)
	if err != nil {
		return DecodedConfirmation{}, RejectWithCause(ReasonMissingOrderID, err)
	}
	if p.Code == "" {
		return DecodedConfirmation{}, Reject(ReasonUnrecognizedFormat)
	}
	return newDecodedConfirmation(orderID, p.Code, FormatCompact), nil
}

// String renders the payload as it would appear in a QR code.
func (p CompactPayload) String() string {
	return CompactPrefix + CompactSeparator + p.OrderID + CompactSeparator + p.Code
}

var ErrDecodedConfirmationIsNotConstructed = errors.New("DecodedConfirmation must be created via Decode or NewDecodedConfirmation")

// DecodedConfirmation is the normalized result of decoding: the order the QR code
// refers to and the secret it carries. The secret may be absent for structured
// payloads without a hash; validation rejects those with code_mismatch.
type DecodedConfirmation struct {
	orderID   kernel.ID
	secret    string
	hasSecret bool
	format    Format

	guard guard.ConstructorGuard
}

// NewDecodedConfirmation builds a confirmation from an already separated order id
// and secret, e.g. when a client submits them as distinct fields. An empty secret
// is treated as absent.
func NewDecodedConfirmation(orderID kernel.ID, secret string) (DecodedConfirmation, error) {
	if err := orderID.Validate(); err != nil {
		return DecodedConfirmation{}, RejectWithCause(ReasonMissingOrderID, err)
	}
	return newDecodedConfirmation(orderID, secret, FormatUnknown), nil
}

func newDecodedConfirmation(orderID kernel.ID, secret string, format Format) DecodedConfirmation {
	return DecodedConfirmation{
		orderID:   orderID,
		secret:    secret,
		hasSecret: secret != "",
		format:    format,
		guard:     guard.NewConstructorGuard(),
	}
}

func (d DecodedConfirmation) OrderID() kernel.ID {
	return d.orderID
}

// Secret returns the confirmation secret and whether one was present.
func (d DecodedConfirmation) Secret() (string, bool) {
	return d.secret, d.hasSecret
}

// Format reports which payload format produced the confirmation.
// FormatUnknown means it was built from separate fields.
func (d DecodedConfirmation) Format() Format {
	return d.format
}

func (d DecodedConfirmation) Validate() error {
	return d.guard.Validate(ErrDecodedConfirmationIsNotConstructed)
}
