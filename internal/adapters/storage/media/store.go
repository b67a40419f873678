package media

import (
	"context"

	domain "coachsite/internal/domain/media"
)

// Store persists media library items.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Save(ctx context.Context, value domain.Item) error
	Delete(ctx context.Context, id string) error
	// List returns items newest first. An empty usage lists all.
	List(ctx context.Context, usage string) ([]domain.Item, error)
}
