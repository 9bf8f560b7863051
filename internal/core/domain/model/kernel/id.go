package kernel

import (
	"strings"
	"unicode/utf8"

	"deliveryconfirm/internal/pkg/errs"
	"deliveryconfirm/internal/pkg/guard"

	"github.com/google/uuid"
)

// ErrIDIsNotConstructed indicates a zero-value ID.
var ErrIDIsNotConstructed = errs.NewValueIsRequiredError("ID must be created via NewID or IDFromString")

// ID is an opaque identifier. Orders and deliverers are identified by whatever
// string the upstream systems assigned (UUIDs in practice, short codes in fixtures),
// so ID only guarantees the value is non-empty and free of surrounding whitespace.
//
// Example:
//
//	id := kernel.NewID()                 // random UUID string
//	id, err := kernel.IDFromString("O1") // existing identifier
type ID struct {
	value string
	guard guard.ConstructorGuard
}

// NewID generates a new random identifier (UUID version 4).
func NewID() ID {
	return ID{
		value: uuid.NewString(),
		guard: guard.NewConstructorGuard(),
	}
}

// IDFromString wraps an existing identifier.
// Returns an error if s is empty, whitespace-only, carries surrounding whitespace,
// or is not storable text (invalid UTF-8 or a NUL byte).
func IDFromString(s string) (ID, error) {
	if strings.TrimSpace(s) == "" {
		return ID{}, errs.NewValueIsRequiredError("id")
	}
	if strings.TrimSpace(s) != s {
		return ID{}, errs.NewValueIsInvalidErrorWithCause("id", errs.NewValueIsInvalidError("surrounding whitespace"))
	}
	if !utf8.ValidString(s) || strings.ContainsRune(s, 0) {
		return ID{}, errs.NewValueIsInvalidErrorWithCause("id", errs.NewValueIsInvalidError("not valid UTF-8 text"))
	}

	return ID{
		value: s,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// MustIDFromString is IDFromString for literals known to be valid; it panics otherwise.
func MustIDFromString(s string) ID {
	id, err := IDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the identifier as given.
func (i ID) String() string {
	return i.value
}

// IsEqual reports whether both identifiers hold the same value.
// Comparison is exact and case-sensitive.
func (i ID) IsEqual(other ID) bool {
	return i.value == other.value
}

// Validate returns ErrIDIsNotConstructed for zero values.
func (i ID) Validate() error {
	return i.guard.Validate(ErrIDIsNotConstructed)
}
