package task

import (
	"context"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/task"
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

// Save persists locally, then mirrors.
func (s *MirroredStore) Save(ctx context.Context, t domain.Task) error {
	if err := s.Store.Save(ctx, t); err != nil {
		return err
	}
	s.mirror.Upsert(ctx, storage.CollectionTasks, t.ID, t, t.UpdatedAt)
	return nil
}

// Delete removes locally, then mirrors.
func (s *MirroredStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.mirror.Delete(ctx, storage.CollectionTasks, id)
	return nil
}
