package orchestrators

import (
	"context"
	"strings"
	"time"

	"coachsite/internal/domain/member"
	"coachsite/internal/domain/sessionnote"
)

// MemberGetter loads a member by id.
type MemberGetter interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// AddSessionNoteInput carries input for a consultation note.
type AddSessionNoteInput struct {
	MemberID string
	NoteDate string // YYYY-MM-DD; empty means today
	Content  string
}

// AddSessionNoteDeps holds dependencies for AddSessionNote.
type AddSessionNoteDeps struct {
	MemberStore      MemberGetter
	SessionNoteStore interface {
		Save(ctx context.Context, n sessionnote.Note) error
	}
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteAddSessionNote records a consultation note for a member.
// PRE: MemberID exists; Content non-empty
// POST: note persisted with NoteDate defaulted to today
func ExecuteAddSessionNote(ctx context.Context, input AddSessionNoteInput, deps AddSessionNoteDeps) (sessionnote.Note, error) {
	if _, err := deps.MemberStore.GetByID(ctx, input.MemberID); err != nil {
		return sessionnote.Note{}, err
	}
	now := deps.Now()
	n := sessionnote.Note{
		ID:        deps.GenerateID(),
		MemberID:  input.MemberID,
		NoteDate:  strings.TrimSpace(input.NoteDate),
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: now,
	}
	if n.NoteDate == "" {
		n.NoteDate = now.Format(sessionnote.DateLayout)
	}
	if err := n.Validate(); err != nil {
		return sessionnote.Note{}, invalid(err)
	}
	if err := deps.SessionNoteStore.Save(ctx, n); err != nil {
		return sessionnote.Note{}, err
	}
	return n, nil
}

// ExecuteDeleteSessionNote removes a note.
// PRE: id exists
// POST: returns an error wrapping sql.ErrNoRows when the note does not exist
func ExecuteDeleteSessionNote(ctx context.Context, id string, store interface {
	GetByID(ctx context.Context, id string) (sessionnote.Note, error)
	Delete(ctx context.Context, id string) error
}) error {
	if _, err := store.GetByID(ctx, id); err != nil {
		return err
	}
	return store.Delete(ctx, id)
}
