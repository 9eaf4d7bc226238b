package car

import "errors"

// ErrNotFound is returned when a car does not exist in the catalog.
var ErrNotFound = errors.New("car not found")

// ValidationError rejects malformed catalog input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
