package booking

import "errors"

// ErrNotFound is returned when a booking does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable so a
// caller cannot probe for other users' bookings.
var ErrNotFound = errors.New("booking not found")

// ValidationError rejects malformed booking input before any saga state is
// created.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
