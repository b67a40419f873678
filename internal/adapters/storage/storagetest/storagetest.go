// Package storagetest provides helpers for store tests.
package storagetest

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coachsite/internal/adapters/storage"
)

// NewDB returns a migrated private in-memory database closed at test cleanup.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.MigrateDB(context.Background(), db))
	return db
}

// MirrorCall is one call recorded by RecordingMirror.
type MirrorCall struct {
	Op         string // "upsert" or "delete"
	Collection string
	ID         string
	Doc        any
	UpdatedAt  time.Time
}

// RecordingMirror is a storage.Mirror that remembers every call.
type RecordingMirror struct {
	mu    sync.Mutex
	calls []MirrorCall
}

var _ storage.Mirror = (*RecordingMirror)(nil)

// Upsert records an upsert.
func (m *RecordingMirror) Upsert(_ context.Context, collection, id string, doc any, updatedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MirrorCall{Op: "upsert", Collection: collection, ID: id, Doc: doc, UpdatedAt: updatedAt})
}

// Delete records a delete.
func (m *RecordingMirror) Delete(_ context.Context, collection, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MirrorCall{Op: "delete", Collection: collection, ID: id})
}

// Calls returns a copy of the recorded calls.
func (m *RecordingMirror) Calls() []MirrorCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MirrorCall(nil), m.calls...)
}
