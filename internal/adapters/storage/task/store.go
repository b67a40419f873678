package task

import (
	"context"

	domain "coachsite/internal/domain/task"
)

// Store persists Task state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Save(ctx context.Context, value domain.Task) error
	Delete(ctx context.Context, id string) error
	// List orders by due date (undated last), then creation.
	List(ctx context.Context, filter ListFilter) ([]domain.Task, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	MemberID string
	Status   string
	OpenOnly bool   // excludes done
	DueFrom  string // YYYY-MM-DD inclusive
	DueTo    string // YYYY-MM-DD inclusive
}
