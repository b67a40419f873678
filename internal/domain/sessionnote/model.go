package sessionnote

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for NoteDate.
const DateLayout = "2006-01-02"

// MaxContentLength caps a single consultation note.
const MaxContentLength = 8000

// Domain errors
var (
	ErrEmptyMemberID  = errors.New("session note must belong to a member")
	ErrInvalidDate    = errors.New("note date must be YYYY-MM-DD")
	ErrEmptyContent   = errors.New("session note content cannot be empty")
	ErrContentTooLong = errors.New("session note content cannot exceed 8000 characters")
)

// Note records the key points of one consultation with a member.
// INVARIANT: NoteDate is a valid YYYY-MM-DD calendar day
type Note struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"memberId"`
	NoteDate  string    `json:"noteDate"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks if the Note has valid data.
// PRE: Note struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Note) Validate() error {
	if n.MemberID == "" {
		return ErrEmptyMemberID
	}
	if _, err := time.Parse(DateLayout, n.NoteDate); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(n.Content) == "" {
		return ErrEmptyContent
	}
	if len([]rune(n.Content)) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}
