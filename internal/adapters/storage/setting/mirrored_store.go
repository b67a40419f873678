package setting

import (
	"context"

	"coachsite/internal/adapters/storage"
)

// MirroredStore copies every successful Put to a storage.Mirror. The key is the document id.
type MirroredStore struct {
	Store
	mirror storage.Mirror
}

// NewMirroredStore decorates local with mirror.
func NewMirroredStore(local Store, mirror storage.Mirror) *MirroredStore {
	return &MirroredStore{Store: local, mirror: mirror}
}

// Put persists locally, then mirrors.
func (s *MirroredStore) Put(ctx context.Context, e Entry) error {
	if err := s.Store.Put(ctx, e); err != nil {
		return err
	}
	s.mirror.Upsert(ctx, storage.CollectionSettings, e.Key, e, e.UpdatedAt)
	return nil
}
