package models

import (
	"errors"
	"fmt"
)

// ErrorType identifies the category of error that occurred.
type ErrorType string

const (
	// Workspace provisioning (external clone/install command exited non-zero)
	ErrProvisioningFailed ErrorType = "provisioning_failed"

	// Theme copy phase
	ErrSourceNotFound ErrorType = "source_not_found"
	ErrCopyFailed     ErrorType = "copy_failed"

	// Workspace cleanup
	ErrCleanFailed ErrorType = "clean_failed"

	// Permission fixing (always non-fatal at the pipeline level)
	ErrPermissionFixFailed ErrorType = "permission_fix_failed"

	// Operator input
	ErrUnknownSelector ErrorType = "unknown_selector"

	// Catch-all
	ErrInternalError ErrorType = "internal_error"
)

// TaskError is a categorized task failure. Callers branch on Type rather
// than parsing the message text.
type TaskError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *TaskError) Error() string {
	return e.Message
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Errorf builds a TaskError of the given category. The format string
// supports %w wrapping like fmt.Errorf.
func Errorf(kind ErrorType, format string, args ...any) *TaskError {
	err := fmt.Errorf(format, args...)
	return &TaskError{
		Type:    kind,
		Message: err.Error(),
		Err:     errors.Unwrap(err),
	}
}

// Kind returns the ErrorType carried by err, or ErrInternalError when err
// has no TaskError in its chain.
func Kind(err error) ErrorType {
	var te *TaskError
	if errors.As(err, &te) {
		return te.Type
	}
	return ErrInternalError
}
