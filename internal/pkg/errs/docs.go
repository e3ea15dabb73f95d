// Package errs provides the error kinds shared by the order review service.
//
// Every kind pairs a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ...) with a
// struct carrying details. The struct unwraps to its sentinel so callers classify
// failures with errors.Is and the HTTP adapter maps them to status codes:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: bad input
//   - ObjectNotFoundError: unknown order, foreign order or unknown token
//   - TransitionIsInvalidError: the order state forbids the action
//   - AlreadyProcessedError: a repeated confirm or cancel, reported as success
package errs
