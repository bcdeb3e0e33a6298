package tasksrepo

import (
	"errors"
	"fmt"
	"strings"
)

// Set of error values for operations on the task resource.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrConstraint   = errors.New("task data violates a storage constraint")
)

// ValidationError collects every rule a request broke.
type ValidationError struct {
	Messages []string
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Add records another broken rule.
func (e *ValidationError) Add(format string, args ...any) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

// OrNil returns nil when nothing was recorded, so callers can return it
// straight through an error interface.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Messages) == 0 {
		return nil
	}
	return e
}

// ServerError wraps an unexpected storage failure with the operation that
// hit it.
type ServerError struct {
	Op  string
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
