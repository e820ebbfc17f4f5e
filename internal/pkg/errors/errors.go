package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict marks a write that lost to an already-existing row.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition marks a status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidState marks an operation applied to a row in the wrong state.
	ErrInvalidState = errors.New("invalid state")
	// ErrStorage marks a blob upload or delete failure.
	ErrStorage = errors.New("storage failure")
)

// ValidationError is input the caller must fix before retrying.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// CascadeError reports which step of an ordered multi-table delete failed.
// The delete runs inside one transaction, so a CascadeError means no step
// was applied.
type CascadeError struct {
	Step string
	Err  error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade delete failed at step %q: %v", e.Step, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }
