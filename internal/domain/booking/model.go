package booking

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MaxMessageLength = 2000
)

// Status constants for the booking lifecycle.
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Statuses lists every booking status in display order.
var Statuses = []string{StatusPending, StatusContacted, StatusConfirmed, StatusCancelled}

// Domain errors
var (
	ErrEmptyName      = errors.New("booking name cannot be empty")
	ErrNameTooLong    = errors.New("booking name cannot exceed 100 characters")
	ErrInvalidEmail   = errors.New("booking email must be valid")
	ErrMessageTooLong = errors.New("booking message cannot exceed 2000 characters")
	ErrInvalidStatus  = errors.New("status must be one of: pending, contacted, confirmed, cancelled")
)

// Booking is a consultation request submitted through the public booking form.
type Booking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks if the Booking has valid data.
// PRE: Booking struct is populated
// POST: Returns nil if valid, the first violated rule otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if len([]rune(b.Name)) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(b.Email) > MaxEmailLength || !strings.Contains(b.Email, "@") {
		return ErrInvalidEmail
	}
	if len([]rune(b.Message)) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if !IsValidStatus(b.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsOpen reports whether the booking still needs the coach's attention on the calendar.
// INVARIANT: Booking fields are not mutated
func (b *Booking) IsOpen() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// SetStatus moves the booking to a new status and refreshes UpdatedAt.
// PRE: status is one of Statuses
// POST: Status and UpdatedAt are set
func (b *Booking) SetStatus(status string, now time.Time) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	b.Status = status
	b.UpdatedAt = now
	return nil
}

// IsValidStatus reports whether s is a known booking status.
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
