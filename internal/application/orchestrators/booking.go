package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	emailAdapter "coachsite/internal/adapters/email"
	"coachsite/internal/domain/booking"
	"coachsite/internal/domain/member"
)

// BookingStoreForOrchestrator defines the store interface needed by booking orchestrators.
type BookingStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (booking.Booking, error)
	Save(ctx context.Context, b booking.Booking) error
	Delete(ctx context.Context, id string) error
}

// --- Submit Booking ---

// SubmitBookingInput carries the public booking form.
type SubmitBookingInput struct {
	Name    string
	Email   string
	Message string
}

// SubmitBookingDeps holds dependencies for SubmitBooking.
type SubmitBookingDeps struct {
	BookingStore BookingStoreForOrchestrator
	Email        EmailDeps
	NotifyEmail  string // coach inbox; empty skips the notification
	AdminURL     string // link in the notification
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSubmitBooking records a consultation request and notifies the coach.
// PRE: Name non-empty, Email contains '@'
// POST: Booking persisted as pending; notification sent or parked in the outbox
// INVARIANT: a notification failure never fails the submission
func ExecuteSubmitBooking(ctx context.Context, input SubmitBookingInput, deps SubmitBookingDeps) (booking.Booking, error) {
	now := deps.Now()
	b := booking.Booking{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Message:   strings.TrimSpace(input.Message),
		Status:    booking.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := b.Validate(); err != nil {
		return booking.Booking{}, invalid(err)
	}
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		return booking.Booking{}, err
	}
	slog.Info("booking_submitted", "booking_id", b.ID)

	if deps.NotifyEmail != "" {
		req, err := emailAdapter.BookingNotification(deps.NotifyEmail, emailAdapter.BookingNotice{
			Name: b.Name, Email: b.Email, Message: b.Message, CreatedAt: b.CreatedAt, AdminURL: deps.AdminURL,
		})
		if err == nil {
			err = deliverEmail(ctx, req, deps.Email)
		}
		if err != nil {
			slog.Error("booking_notification_failed", "booking_id", b.ID, "error", err)
		}
	}
	return b, nil
}

// --- Update Booking Status ---

// UpdateBookingStatusInput carries input for the status change.
type UpdateBookingStatusInput struct {
	BookingID string
	Status    string
}

// UpdateBookingStatusDeps holds dependencies for UpdateBookingStatus.
type UpdateBookingStatusDeps struct {
	BookingStore BookingStoreForOrchestrator
	Now          func() time.Time
}

// ExecuteUpdateBookingStatus moves a booking to another status.
// PRE: BookingID exists; Status is a booking status
// POST: Status and UpdatedAt persisted
func ExecuteUpdateBookingStatus(ctx context.Context, input UpdateBookingStatusInput, deps UpdateBookingStatusDeps) (booking.Booking, error) {
	b, err := deps.BookingStore.GetByID(ctx, input.BookingID)
	if err != nil {
		return booking.Booking{}, err
	}
	if err := b.SetStatus(input.Status, deps.Now()); err != nil {
		return booking.Booking{}, invalid(err)
	}
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		return booking.Booking{}, err
	}
	return b, nil
}

// ExecuteDeleteBooking removes a booking.
// PRE: id exists
// POST: booking is gone; returns an error wrapping sql.ErrNoRows when it was never there
func ExecuteDeleteBooking(ctx context.Context, id string, store BookingStoreForOrchestrator) error {
	if _, err := store.GetByID(ctx, id); err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

// --- Convert Booking To Member ---

// MemberLookupByEmail finds an existing member by email.
type MemberLookupByEmail interface {
	GetByEmail(ctx context.Context, email string) (member.Member, error)
}

// ConvertBookingDeps holds dependencies for ConvertBooking.
type ConvertBookingDeps struct {
	BookingStore BookingStoreForOrchestrator
	MemberStore  interface {
		MemberLookupByEmail
		Save(ctx context.Context, m member.Member) error
	}
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteConvertBooking creates a CRM member from a booking.
// PRE: BookingID exists
// PRE: booking is not cancelled
// POST: new member with source=booking and status=new; the booking is unchanged
// INVARIANT: at most one member per email; returns ErrAlreadyMember with the existing member otherwise
func ExecuteConvertBooking(ctx context.Context, bookingID string, deps ConvertBookingDeps) (member.Member, error) {
	b, err := deps.BookingStore.GetByID(ctx, bookingID)
	if err != nil {
		return member.Member{}, err
	}
	if b.Status == booking.StatusCancelled {
		return member.Member{}, invalid(ErrCancelledBooking)
	}
	existing, err := deps.MemberStore.GetByEmail(ctx, b.Email)
	if err == nil {
		return existing, ErrAlreadyMember
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return member.Member{}, err
	}

	now := deps.Now()
	m := member.Member{
		ID:        deps.GenerateID(),
		Name:      b.Name,
		Email:     b.Email,
		Source:    member.SourceBooking,
		Status:    member.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if b.Message != "" {
		m.ProgressNote = "預約留言：" + b.Message
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, invalid(err)
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}
	slog.Info("booking_converted", "booking_id", b.ID, "member_id", m.ID)
	return m, nil
}
