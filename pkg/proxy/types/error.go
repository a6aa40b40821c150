package types

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every error the gateway itself produces.
// Backend error bodies on pass-through routes are relayed unchanged instead.
type ErrorResponse struct {
	// Detail is a human-readable error message.
	Detail string `json:"detail"`
}

// GatewayError is a failure translated to the status and message returned
// to the client. Pipeline stages return one GatewayError per failure.
type GatewayError struct {
	// Status is the HTTP status code returned to the client.
	Status int

	// Detail is the client-facing message.
	Detail string

	// Cause is the underlying failure. It is logged, never returned to the client.
	Cause error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Detail)
}

// Unwrap returns the underlying error for error chain support.
func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// Response returns the client-facing error body.
func (e *GatewayError) Response() *ErrorResponse {
	return &ErrorResponse{Detail: e.Detail}
}

// NewGatewayError creates a GatewayError. A status outside the valid HTTP
// range is replaced by 500.
func NewGatewayError(status int, detail string, cause error) *GatewayError {
	if status < 100 || status > 599 {
		status = http.StatusInternalServerError
	}
	return &GatewayError{Status: status, Detail: detail, Cause: cause}
}

// NewServerError creates a 500 error.
func NewServerError(detail string, cause error) *GatewayError {
	return NewGatewayError(http.StatusInternalServerError, detail, cause)
}

// NewBadGatewayError creates a 502 error.
func NewBadGatewayError(detail string, cause error) *GatewayError {
	return NewGatewayError(http.StatusBadGateway, detail, cause)
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(detail string, cause error) *GatewayError {
	return NewGatewayError(http.StatusNotFound, detail, cause)
}

// NewUnauthorizedError creates a 401 error.
func NewUnauthorizedError(detail string, cause error) *GatewayError {
	return NewGatewayError(http.StatusUnauthorized, detail, cause)
}
