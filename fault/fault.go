package fault

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("conflicting update")
)

type ErrorType int

const (
	ErrValidation ErrorType = iota
	ErrInternal
)

// Fault carries the error taxonomy used by the HTTP layer to pick a status
// code. Validation faults may list the offending field names so the caller
// can correct and resubmit.
type Fault struct {
	Type    ErrorType
	Message string
	Fields  []string
	Err     error
}

func (e *Fault) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.typeString(), msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.typeString(), msg)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *Fault) Unwrap() error {
	return e.Err
}

func (e *Fault) typeString() string {
	switch e.Type {
	case ErrValidation:
		return "ValidationError"
	case ErrInternal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// NewValidationError creates a validation error listing the offending fields.
func NewValidationError(msg string, fields ...string) error {
	return &Fault{
		Type:    ErrValidation,
		Message: msg,
		Fields:  fields,
	}
}

// NewInternalError creates a new internal server error.
func NewInternalError(msg string, err error) error {
	return &Fault{
		Type:    ErrInternal,
		Message: msg,
		Err:     err,
	}
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Type == ErrValidation
	}
	return false
}

// ValidationFields returns the field names attached to a validation error.
func ValidationFields(err error) []string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Fields
	}
	return nil
}
