package domain

import (
	"errors"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// ValidationError names the input fields that were rejected.
type ValidationError struct {
	Fields []string
	// Reason overrides the generated message when set.
	Reason string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if len(e.Fields) == 0 {
		return "invalid data"
	}
	return "invalid " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
