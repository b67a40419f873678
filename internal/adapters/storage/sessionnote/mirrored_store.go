package sessionnote

import (
	"context"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/sessionnote"
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

// Save persists locally, then mirrors. Notes are immutable so CreatedAt is the version.
func (s *MirroredStore) Save(ctx context.Context, n domain.Note) error {
	if err := s.Store.Save(ctx, n); err != nil {
		return err
	}
	s.mirror.Upsert(ctx, storage.CollectionSessionNotes, n.ID, n, n.CreatedAt)
	return nil
}

// Delete removes locally, then mirrors.
func (s *MirroredStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.mirror.Delete(ctx, storage.CollectionSessionNotes, id)
	return nil
}
