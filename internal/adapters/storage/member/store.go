package member

import (
	"context"

	domain "coachsite/internal/domain/member"
)

// Store persists CRM Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	// GetByEmail matches case-insensitively after trimming.
	GetByEmail(ctx context.Context, email string) (domain.Member, error)
	GetByLineUserID(ctx context.Context, lineUserID string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// Results are ordered by most recently updated first.
type ListFilter struct {
	Limit    int
	Offset   int
	Status   string
	Statuses []string
	Source   string
	Tag      string
	Search   string // matches name, email, phone or LINE display name
}
