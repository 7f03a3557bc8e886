package export

import (
	"errors"
	"fmt"
)

// IndexError represents a failure scoped to a single index: the backend
// rejected the snapshot open or reported an application error during a
// page fetch. The exporter skips the affected index and continues; output
// already written for the index is retained.
type IndexError struct {
	// Index is the index the failure is attributed to.
	Index string

	// Status is the HTTP status code, or 0 when the failure was reported
	// inside a successful transport response.
	Status int

	// Detail is the backend-reported reason or the raw response body when
	// the body matched neither the success nor the error shape.
	Detail string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("index %q failed (status %d): %s", e.Index, e.Status, e.Detail)
	}
	return fmt.Sprintf("index %q failed: %s", e.Index, e.Detail)
}

// Unwrap returns the underlying error for error chain support.
func (e *IndexError) Unwrap() error {
	return e.Cause
}

// AsIndexError returns the *IndexError in err's chain, if any.
// Errors outside the chain are fatal to the whole run.
func AsIndexError(err error) (*IndexError, bool) {
	var ie *IndexError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// ErrNoCursor is the data anomaly raised when a non-empty page carries no
// usable sort key. Continuing without a cursor would restart pagination
// from the beginning and loop forever, so the affected index is aborted
// instead.
var ErrNoCursor = errors.New("page has documents but no sort key to derive a cursor from")
