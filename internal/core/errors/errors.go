// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Validation errors. These indicate an upstream contract violation
// (e.g. negative engagement counts) rather than expected missing data,
// and are the only category that propagates as a hard error.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNegativeCount indicates a negative engagement count or duration.
	ErrNegativeCount = errors.New("negative count")
)

// Text-generation collaborator errors. These never surface as hard
// failures from the summarizer: they are recorded on the fallback result.
var (
	// ErrRateLimited indicates the collaborator rejected the call for rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates a collaborator 5xx.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrAPIError indicates any other collaborator failure.
	ErrAPIError = errors.New("api error")

	// ErrMalformedResponse indicates the collaborator returned a payload
	// that could not be parsed against the prompt contract.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrCircuitBreakerOpen indicates the circuit breaker has tripped and requests are blocked.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
)

// Lookup errors.
var (
	// ErrNotFound is a generic not found error.
	ErrNotFound = errors.New("not found")

	// ErrJobNotFound indicates a scrape job could not be found.
	ErrJobNotFound = errors.New("job not found")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
