package push

import (
	"context"
	"time"

	domain "coachsite/internal/domain/push"
)

// Store persists push Messages.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Message, error)
	Save(ctx context.Context, value domain.Message) error
	Delete(ctx context.Context, id string) error
	// List returns messages newest first, optionally by status.
	List(ctx context.Context, status string) ([]domain.Message, error)
	// ListDue returns scheduled messages whose time is at or before now, oldest first.
	ListDue(ctx context.Context, now time.Time) ([]domain.Message, error)
}
