package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks malformed or missing input. Surfaced as 400.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrServiceUnavailable marks administrative disablement or a storage
	// outage. Surfaced as 503, never as an empty availability set.
	ErrServiceUnavailable = errors.New("booking service unavailable")
	// ErrNotFound marks a lookup of a reservation that does not exist.
	ErrNotFound = errors.New("reservation not found")
	// ErrUpstream marks a failed third-party call (processor, storage write).
	ErrUpstream = errors.New("upstream failure")
)

// ConflictError reports a write against a slot already held by an active
// reservation. The bridge uses it to trigger the refund path.
type ConflictError struct {
	SessionDate string
	SessionTime string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %s %s is already booked", e.SessionDate, e.SessionTime)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
