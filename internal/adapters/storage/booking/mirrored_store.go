package booking

import (
	"context"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/booking"
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
func (s *MirroredStore) Save(ctx context.Context, b domain.Booking) error {
	if err := s.Store.Save(ctx, b); err != nil {
		return err
	}
	s.mirror.Upsert(ctx, storage.CollectionBookings, b.ID, b, b.UpdatedAt)
	return nil
}

// Delete removes locally, then mirrors.
func (s *MirroredStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.mirror.Delete(ctx, storage.CollectionBookings, id)
	return nil
}
