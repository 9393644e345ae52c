package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a direct insert collides with
	// an existing entry's content.
	ErrAlreadyExists = errors.New("entry already exists")
	// ErrAlreadyProcessed is returned when processing is requested for
	// an entry that has already been exported.
	ErrAlreadyProcessed = errors.New("entry already processed")
	// ErrAIUnavailable is returned when an operation strictly requires
	// the classification provider and it cannot be reached.
	ErrAIUnavailable = errors.New("ai service unavailable")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
