package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when a backend answers with a status the call
// does not accept.
// The body is kept so callers that relay errors can do so unchanged.
type StatusError struct {
	// Backend is the logical backend name (inventory, llm, user, image, geolocation)
	Backend string

	// URL is the endpoint that was called, without query string
	URL string

	// StatusCode is the HTTP status code returned by the backend
	StatusCode int

	// Body is the raw response body
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %q returned status %d for %s", e.Backend, e.StatusCode, e.URL)
}

// TransportError is returned when no response was received at all: DNS
// failure, refused connection, reset, or the transport timeout elapsing.
type TransportError struct {
	// Backend is the logical backend name
	Backend string

	// URL is the endpoint that was called, without query string
	URL string

	// Timeout reports whether the failure was the transport timeout
	Timeout bool

	// Cause is the underlying network error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("backend %q request to %s timed out: %v", e.Backend, e.URL, e.Cause)
	}
	return fmt.Sprintf("backend %q request to %s failed: %v", e.Backend, e.URL, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ContractError is returned when a backend answered successfully but the
// payload does not have the shape the gateway relies on.
type ContractError struct {
	// Backend is the logical backend name
	Backend string

	// Contract names the expected payload shape
	Contract string

	// Violations lists schema violations, if the payload was valid JSON
	Violations []string

	// RawResponse is the raw response body, truncated for logging
	RawResponse string

	// Cause is the underlying decode error, if any
	Cause error
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("backend %q returned malformed %s payload: %v", e.Backend, e.Contract, e.Cause)
	case len(e.Violations) > 0:
		return fmt.Sprintf("backend %q returned malformed %s payload: %s", e.Backend, e.Contract, e.Violations[0])
	default:
		return fmt.Sprintf("backend %q returned malformed %s payload", e.Backend, e.Contract)
	}
}

// Unwrap returns the underlying error for error chain support.
func (e *ContractError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the backend status carried by err, or 500 when the
// failure produced no backend status (transport and contract failures).
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return http.StatusInternalServerError
}

// truncate limits raw payloads kept on errors and in logs.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
