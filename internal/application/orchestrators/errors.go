package orchestrators

import (
	"errors"
	"fmt"
)

// Orchestrator errors. Handlers map these onto HTTP status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrAlreadyMember      = errors.New("a member with this email already exists")
	ErrCancelledBooking   = errors.New("cancelled bookings cannot become members")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
)

// invalid marks err as a validation failure while keeping the domain error matchable.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
