// Package apperr defines the application error taxonomy shared across layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the resource id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the requester is authenticated but does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized means the owner identity is missing or unverifiable.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed or incomplete input with a
// field-level message. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid constructs a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
