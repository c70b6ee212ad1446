package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to create a duplicate entity.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidTransition is returned when an Evaluation status transition
	// is not one of the permitted edges in the state machine.
	ErrInvalidTransition = errors.New("invalid evaluation status transition")

	// ErrBenchmarkInUse is returned when deleting a Benchmark that is
	// referenced by at least one Evaluation.
	ErrBenchmarkInUse = errors.New("benchmark is referenced by existing evaluations")
)

// ValidationError wraps field-specific validation errors raised while
// constructing a domain value. It always carries FailureConfigurationError
// semantics at the ACL boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
