package services

import (
	"strings"

	"github.com/google/uuid"
)

const confirmationCodeLength = 12

// ConfirmationCodeGenerator produces confirmation codes: lowercase hex, so they
// can be embedded in the compact QR form.
type ConfirmationCodeGenerator struct{}

func NewConfirmationCodeGenerator() ConfirmationCodeGenerator {
	return ConfirmationCodeGenerator{}
}

// Generate returns a fresh random code.
func (ConfirmationCodeGenerator) Generate() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:confirmationCodeLength]
}
