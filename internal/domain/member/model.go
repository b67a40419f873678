package member

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength         = 100
	MaxEmailLength        = 254
	MaxProgressNoteLength = 4000
	MaxTags               = 20
)

// Source constants describe how a member entered the CRM.
const (
	SourceBooking = "booking"
	SourceManual  = "manual"
	SourceLine    = "line"
)

// Sources lists every member source.
var Sources = []string{SourceManual, SourceBooking, SourceLine}

// Status constants for the coaching relationship.
const (
	StatusNew        = "new"
	StatusFollowing  = "following"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusPaused     = "paused"
)

// Statuses lists every member status in display order.
var Statuses = []string{StatusNew, StatusFollowing, StatusInProgress, StatusCompleted, StatusPaused}

// Domain errors
var (
	ErrEmptyName     = errors.New("member name cannot be empty")
	ErrNameTooLong   = errors.New("member name cannot exceed 100 characters")
	ErrInvalidEmail  = errors.New("member email must be valid")
	ErrInvalidSource = errors.New("source must be one of: booking, manual, line")
	ErrInvalidStatus = errors.New("status must be one of: new, following, in_progress, completed, paused")
	ErrNoteTooLong   = errors.New("progress note cannot exceed 4000 characters")
	ErrTooManyTags   = errors.New("member cannot have more than 20 tags")
)

// Member is a CRM record for a coaching client.
type Member struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone,omitempty"`
	PreferredContactTime string    `json:"preferredContactTime,omitempty"`
	LineID               string    `json:"lineId,omitempty"`
	LineUserID           string    `json:"lineUserId,omitempty"`
	LineDisplayName      string    `json:"lineDisplayName,omitempty"`
	LinePictureURL       string    `json:"linePictureUrl,omitempty"`
	Tags                 []string  `json:"tags,omitempty"`
	Source               string    `json:"source"`
	Status               string    `json:"status"`
	ProgressNote         string    `json:"progressNote,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len([]rune(m.Name)) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(m.Email) > MaxEmailLength || !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if !slices.Contains(Sources, m.Source) {
		return ErrInvalidSource
	}
	if !IsValidStatus(m.Status) {
		return ErrInvalidStatus
	}
	if len([]rune(m.ProgressNote)) > MaxProgressNoteLength {
		return ErrNoteTooLong
	}
	if len(m.Tags) > MaxTags {
		return ErrTooManyTags
	}
	return nil
}

// IsActive reports whether the coach is currently working with the member.
// INVARIANT: Member fields are not mutated
func (m *Member) IsActive() bool {
	return m.Status == StatusFollowing || m.Status == StatusInProgress
}

// NeedsFollowUp reports whether the member is in a status the stale radar watches.
// INVARIANT: Member fields are not mutated
func (m *Member) NeedsFollowUp() bool {
	return m.Status == StatusNew || m.Status == StatusFollowing || m.Status == StatusInProgress
}

// HasTag reports whether the member carries the given tag (exact match after normalisation).
func (m *Member) HasTag(tag string) bool {
	tag = normalizeTag(tag)
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SetStatus moves the member to a new status.
// PRE: status is one of Statuses
// POST: Status and UpdatedAt are set
func (m *Member) SetStatus(status string, now time.Time) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	m.Status = status
	m.UpdatedAt = now
	return nil
}

// SetProgressNote replaces the free-form progress note.
// POST: ProgressNote and UpdatedAt are set
func (m *Member) SetProgressNote(note string, now time.Time) error {
	if len([]rune(note)) > MaxProgressNoteLength {
		return ErrNoteTooLong
	}
	m.ProgressNote = note
	m.UpdatedAt = now
	return nil
}

// SetTags replaces the tag list with its normalised form.
// POST: Tags are trimmed, NFKC-folded, de-duplicated and non-empty
func (m *Member) SetTags(tags []string, now time.Time) error {
	normalized := NormalizeTags(tags)
	if len(normalized) > MaxTags {
		return ErrTooManyTags
	}
	m.Tags = normalized
	m.UpdatedAt = now
	return nil
}

// ContactUpdate carries optional contact fields. Nil pointers leave the field untouched.
type ContactUpdate struct {
	Phone                *string `json:"phone"`
	PreferredContactTime *string `json:"preferredContactTime"`
	LineID               *string `json:"lineId"`
}

// ApplyContact merges the non-nil fields of u into the member.
// POST: UpdatedAt is refreshed even when u is empty
func (m *Member) ApplyContact(u ContactUpdate, now time.Time) {
	if u.Phone != nil {
		m.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.PreferredContactTime != nil {
		m.PreferredContactTime = strings.TrimSpace(*u.PreferredContactTime)
	}
	if u.LineID != nil {
		m.LineID = strings.TrimSpace(*u.LineID)
	}
	m.UpdatedAt = now
}

// LineProfile carries the fields captured from the LINE official account.
type LineProfile struct {
	UserID      *string `json:"lineUserId"`
	DisplayName *string `json:"lineDisplayName"`
	PictureURL  *string `json:"linePictureUrl"`
}

// ApplyLineProfile merges the non-nil LINE profile fields into the member.
// POST: UpdatedAt is refreshed
func (m *Member) ApplyLineProfile(p LineProfile, now time.Time) {
	if p.UserID != nil {
		m.LineUserID = strings.TrimSpace(*p.UserID)
	}
	if p.DisplayName != nil {
		m.LineDisplayName = strings.TrimSpace(*p.DisplayName)
	}
	if p.PictureURL != nil {
		m.LinePictureURL = strings.TrimSpace(*p.PictureURL)
	}
	m.UpdatedAt = now
}

// IsValidStatus reports whether s is a known member status.
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
