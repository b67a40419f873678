package sessionnote

import (
	"context"

	domain "coachsite/internal/domain/sessionnote"
)

// Store persists session Notes.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Note, error)
	Save(ctx context.Context, value domain.Note) error
	Delete(ctx context.Context, id string) error
	// ListByMember returns a member's notes, newest note date first.
	ListByMember(ctx context.Context, memberID string) ([]domain.Note, error)
}
