// Package kernel provides the shared domain primitives of the confirmation service.
//
// The package includes:
//   - ID: an opaque, validated identifier used for orders, deliverers and events
//
// Identifiers are immutable value objects. Their zero value is invalid and fails
// Validate, so an identifier that skipped its constructor cannot leak into an
// aggregate or a repository call.
package kernel
