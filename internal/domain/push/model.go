package push

import (
	"errors"
	"strings"
	"time"

	"coachsite/internal/domain/member"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength = 200
	MaxBodyLength  = 2000
)

// Status constants for the push message lifecycle.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusSent      = "sent"
)

// Statuses lists every push status in display order.
var Statuses = []string{StatusDraft, StatusScheduled, StatusSent}

// Audience filters select recipients by member status.
const (
	AudienceAll        = "all"
	AudienceActive     = "active"
	AudienceNew        = member.StatusNew
	AudienceFollowing  = member.StatusFollowing
	AudienceInProgress = member.StatusInProgress
	AudienceCompleted  = member.StatusCompleted
	AudiencePaused     = member.StatusPaused
)

// Audiences lists every audience filter.
var Audiences = []string{AudienceAll, AudienceActive, AudienceNew, AudienceFollowing, AudienceInProgress, AudienceCompleted, AudiencePaused}

// Domain errors
var (
	ErrEmptyTitle      = errors.New("push title cannot be empty")
	ErrTitleTooLong    = errors.New("push title cannot exceed 200 characters")
	ErrEmptyBody       = errors.New("push body cannot be empty")
	ErrBodyTooLong     = errors.New("push body cannot exceed 2000 characters")
	ErrInvalidStatus   = errors.New("status must be one of: draft, scheduled, sent")
	ErrInvalidAudience = errors.New("audience must be one of: all, active, new, following, in_progress, completed, paused")
	ErrAlreadySent     = errors.New("push message has already been sent")
	ErrScheduleInPast  = errors.New("scheduled time must be in the future")
	ErrMissingSchedule = errors.New("scheduled message needs a scheduled time")
	ErrNotScheduled    = errors.New("push message is not scheduled")
)

// Message is a push notification drafted in the admin panel.
// INVARIANT: Status == sent implies SentAt is set; sent is terminal
type Message struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Status         string    `json:"status"`
	AudienceFilter string    `json:"audienceFilter"`
	ScheduledAt    time.Time `json:"scheduledAt,omitzero"`
	SentAt         time.Time `json:"sentAt,omitzero"`
	RecipientCount int       `json:"recipientCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	if len([]rune(m.Title)) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(m.Body) == "" {
		return ErrEmptyBody
	}
	if len([]rune(m.Body)) > MaxBodyLength {
		return ErrBodyTooLong
	}
	if !isOneOf(m.Status, Statuses) {
		return ErrInvalidStatus
	}
	if !IsValidAudience(m.AudienceFilter) {
		return ErrInvalidAudience
	}
	if m.Status == StatusScheduled && m.ScheduledAt.IsZero() {
		return ErrMissingSchedule
	}
	return nil
}

// IsSent reports whether the message reached its terminal state.
func (m *Message) IsSent() bool {
	return m.Status == StatusSent
}

// IsDue reports whether a scheduled message should go out at now.
// INVARIANT: Message fields are not mutated
func (m *Message) IsDue(now time.Time) bool {
	return m.Status == StatusScheduled && !m.ScheduledAt.IsZero() && !m.ScheduledAt.After(now)
}

// Edit replaces the editable content of an unsent message.
// PRE: message is not sent
// POST: Title, Body, AudienceFilter and UpdatedAt are set
func (m *Message) Edit(title, body, audience string, now time.Time) error {
	if m.IsSent() {
		return ErrAlreadySent
	}
	m.Title = title
	m.Body = body
	if audience != "" {
		m.AudienceFilter = audience
	}
	m.UpdatedAt = now
	return nil
}

// Schedule marks the message for delivery at a future time.
// PRE: message is not sent, at is after now
// POST: Status is scheduled, ScheduledAt is at
func (m *Message) Schedule(at, now time.Time) error {
	if m.IsSent() {
		return ErrAlreadySent
	}
	if !at.After(now) {
		return ErrScheduleInPast
	}
	m.Status = StatusScheduled
	m.ScheduledAt = at.UTC()
	m.UpdatedAt = now
	return nil
}

// Unschedule returns a scheduled message to draft.
// PRE: message is scheduled
// POST: Status is draft, ScheduledAt cleared
func (m *Message) Unschedule(now time.Time) error {
	if m.Status != StatusScheduled {
		return ErrNotScheduled
	}
	m.Status = StatusDraft
	m.ScheduledAt = time.Time{}
	m.UpdatedAt = now
	return nil
}

// MarkSent records delivery.
// PRE: message is not sent
// POST: Status is sent, SentAt is now, RecipientCount is recipients
func (m *Message) MarkSent(recipients int, now time.Time) error {
	if m.IsSent() {
		return ErrAlreadySent
	}
	m.Status = StatusSent
	m.SentAt = now
	m.RecipientCount = recipients
	m.UpdatedAt = now
	return nil
}

// MatchesAudience reports whether a member with memberStatus belongs to audience.
// "active" covers members the coach is currently working with.
func MatchesAudience(audience, memberStatus string) bool {
	switch audience {
	case AudienceAll, "":
		return true
	case AudienceActive:
		return memberStatus == member.StatusFollowing || memberStatus == member.StatusInProgress
	default:
		return audience == memberStatus
	}
}

// IsValidAudience reports whether a is a known audience filter.
func IsValidAudience(a string) bool {
	return isOneOf(a, Audiences)
}

func isOneOf(s string, values []string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
