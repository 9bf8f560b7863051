// Package services provides domain services of the confirmation service: logic
// that needs more than one aggregate or value object to decide.
//
// The package includes:
//   - ConfirmationValidator: decides whether a decoded confirmation presented by a
//     deliverer may complete an order
//   - ConfirmationCodeGenerator: issues the secrets printed in QR codes
package services
