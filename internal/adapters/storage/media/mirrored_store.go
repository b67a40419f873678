package media

import (
	"context"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/media"
)

// MirroredStore copies every successful local write to a storage.Mirror.
type MirroredStore struct {
	Store
	mirror storage.Mirror
}

// NewMirroredStore decorates local with mirror.
func NewMirroredStore(local Store, mirror storage.Mirror) *MirroredStore {
	return &MirroredStore{Store: local, mirror: mirror}
}

// Save persists locally, then mirrors. Items are immutable apart from
// metadata, so CreatedAt serves as the version.
func (s *MirroredStore) Save(ctx context.Context, i domain.Item) error {
	if err := s.Store.Save(ctx, i); err != nil {
		return err
	}
	s.mirror.Upsert(ctx, storage.CollectionMediaItems, i.ID, i, i.CreatedAt)
	return nil
}

// Delete removes locally, then mirrors.
func (s *MirroredStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.mirror.Delete(ctx, storage.CollectionMediaItems, id)
	return nil
}
