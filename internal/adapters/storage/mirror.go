package storage

import (
	"context"
	"time"
)

// Collections mirrored to the remote database.
const (
	CollectionBookings     = "bookings"
	CollectionMembers      = "members"
	CollectionSessionNotes = "session_notes"
	CollectionTasks        = "tasks"
	CollectionPushMessages = "push_messages"
	CollectionMediaItems   = "media_items"
	CollectionSettings     = "settings"
)

// Collections lists every mirrored collection.
var Collections = []string{
	CollectionBookings, CollectionMembers, CollectionSessionNotes, CollectionTasks,
	CollectionPushMessages, CollectionMediaItems, CollectionSettings,
}

// Mirror receives copies of local writes. Implementations must not fail the
// caller: the local store is authoritative and delivery is best effort.
type Mirror interface {
	Upsert(ctx context.Context, collection, id string, doc any, updatedAt time.Time)
	Delete(ctx context.Context, collection, id string)
}

// NoopMirror discards every write. Used when no remote database is configured.
type NoopMirror struct{}

// Upsert does nothing.
func (NoopMirror) Upsert(context.Context, string, string, any, time.Time) {}

// Delete does nothing.
func (NoopMirror) Delete(context.Context, string, string) {}
