package client

import (
	"fmt"
	"time"
)

// TransportError represents a network-level failure reaching the backend.
// It indicates the endpoint itself is unreachable, not that the backend
// rejected a request.
type TransportError struct {
	// Endpoint is the request path that failed.
	Endpoint string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on %s: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// TimeoutError represents a request that exceeded the configured timeout.
type TimeoutError struct {
	// Endpoint is the request path that timed out.
	Endpoint string

	// Timeout is the configured per-request timeout.
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.Endpoint, e.Timeout)
}
