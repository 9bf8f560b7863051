// Package errs provides the typed errors shared by the domain, application and
// adapter layers of the confirmation service.
//
// Every error type follows the same shape:
//   - a sentinel error variable (e.g., ErrValueIsRequired) used with errors.Is
//   - a struct type carrying the details (parameter name, offending value, cause)
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The types in use:
//   - ObjectNotFoundError: a lookup by identifier found nothing
//   - ObjectAlreadyExistsError: an identifier was already taken
//   - ValueIsInvalidError: a value broke a domain rule
//   - ValueIsOutOfRangeError: a value fell outside an inclusive range
//   - ValueIsRequiredError: a mandatory value was missing
//   - ConcurrencyConflictError: a conditional write lost its precondition
package errs
