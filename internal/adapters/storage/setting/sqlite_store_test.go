package setting_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachsite/internal/adapters/storage"
	"coachsite/internal/adapters/storage/setting"
	"coachsite/internal/adapters/storage/storagetest"
)

var now = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

// TestSQLiteStore_GetPut verifies raw values and upsert.
func TestSQLiteStore_GetPut(t *testing.T) {
	ctx := context.Background()
	s := setting.NewSQLiteStore(storagetest.NewDB(t))

	_, err := s.Get(ctx, "stale_days")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, s.Put(ctx, setting.Entry{Key: "stale_days", Value: []byte("7"), UpdatedAt: now}))
	require.NoError(t, s.Put(ctx, setting.Entry{Key: "stale_days", Value: []byte("14"), UpdatedAt: now.Add(time.Minute)}))

	e, err := s.Get(ctx, "stale_days")
	require.NoError(t, err)
	assert.JSONEq(t, "14", string(e.Value))
	assert.True(t, e.UpdatedAt.Equal(now.Add(time.Minute)))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// TestLoadPut verifies the typed helpers.
func TestLoadPut(t *testing.T) {
	ctx := context.Background()
	s := setting.NewSQLiteStore(storagetest.NewDB(t))

	var colors map[string]string
	found, err := setting.Load(ctx, s, "tag_colors", &colors)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, setting.Put(ctx, s, "tag_colors", map[string]string{"VIP": "#f472b6"}, now))
	found, err = setting.Load(ctx, s, "tag_colors", &colors)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "#f472b6", colors["VIP"])

	require.NoError(t, s.Put(ctx, setting.Entry{Key: "broken", Value: []byte("{"), UpdatedAt: now}))
	_, err = setting.Load(ctx, s, "broken", &colors)
	assert.Error(t, err)
}

// TestMirroredStore verifies settings are mirrored under their key.
func TestMirroredStore(t *testing.T) {
	ctx := context.Background()
	mirror := &storagetest.RecordingMirror{}
	s := setting.NewMirroredStore(setting.NewSQLiteStore(storagetest.NewDB(t)), mirror)
	require.NoError(t, setting.Put(ctx, s, "site_theme", "pink", now))
	calls := mirror.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, storage.CollectionSettings, calls[0].Collection)
	assert.Equal(t, "site_theme", calls[0].ID)
}
