package member_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachsite/internal/adapters/storage"
	store "coachsite/internal/adapters/storage/member"
	"coachsite/internal/adapters/storage/storagetest"
	domain "coachsite/internal/domain/member"
)

var base = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

func newMember(id, name, status string, updatedAgo time.Duration, tags ...string) domain.Member {
	return domain.Member{
		ID: id, Name: name, Email: id + "@example.com",
		Source: domain.SourceManual, Status: status, Tags: tags,
		CreatedAt: base.Add(-48 * time.Hour), UpdatedAt: base.Add(-updatedAgo),
	}
}

func ids(ms []domain.Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

// TestSQLiteStore_RoundTrip verifies every column survives a save.
func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLiteStore(storagetest.NewDB(t))

	m := newMember("m1", "王小美", domain.StatusFollowing, 0, "產後", "VIP")
	m.Phone = "0912-345-678"
	m.PreferredContactTime = "平日晚上"
	m.LineID = "xiaomei"
	m.LineUserID = "U123"
	m.LineDisplayName = "小美"
	m.LinePictureURL = "https://profile.line-scdn.net/x"
	m.Source = domain.SourceLine
	m.ProgressNote = "本週目標："
	require.NoError(t, s.Save(ctx, m))

	got, err := s.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, m.Tags, got.Tags)
	assert.Equal(t, m.LinePictureURL, got.LinePictureURL)
	assert.Equal(t, m.ProgressNote, got.ProgressNote)
	assert.True(t, m.UpdatedAt.Equal(got.UpdatedAt))

	byLine, err := s.GetByLineUserID(ctx, "U123")
	require.NoError(t, err)
	assert.Equal(t, "m1", byLine.ID)
}

// TestSQLiteStore_NoTags verifies nil tags come back nil.
func TestSQLiteStore_NoTags(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLiteStore(storagetest.NewDB(t))
	require.NoError(t, s.Save(ctx, newMember("m1", "Amy", domain.StatusNew, 0)))
	got, err := s.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got.Tags)
}

// TestSQLiteStore_GetByEmail verifies case-insensitive lookup.
func TestSQLiteStore_GetByEmail(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLiteStore(storagetest.NewDB(t))
	m := newMember("m1", "Amy", domain.StatusNew, 0)
	m.Email = "Amy@Example.com"
	require.NoError(t, s.Save(ctx, m))

	got, err := s.GetByEmail(ctx, "  amy@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)

	_, err = s.GetByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = s.GetByLineUserID(ctx, "")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

// TestSQLiteStore_ListFilters covers status, tag, search and ordering.
func TestSQLiteStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLiteStore(storagetest.NewDB(t))
	for _, m := range []domain.Member{
		newMember("a", "Alice", domain.StatusNew, 3*time.Hour, "產後"),
		newMember("b", "Bella", domain.StatusFollowing, time.Hour, "VIP", "產後"),
		newMember("c", "Cathy_100%", domain.StatusPaused, 2*time.Hour),
	} {
		require.NoError(t, s.Save(ctx, m))
	}

	all, err := s.List(ctx, store.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(all))

	tagged, err := s.List(ctx, store.ListFilter{Tag: "產後"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(tagged))

	active, err := s.List(ctx, store.ListFilter{Statuses: []string{domain.StatusNew, domain.StatusFollowing}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(active))

	search, err := s.List(ctx, store.ListFilter{Search: "bel"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(search))

	literal, err := s.List(ctx, store.ListFilter{Search: "_100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(literal))

	n, err := s.Count(ctx, store.ListFilter{Status: domain.StatusPaused})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// TestMirroredStore verifies mirror calls follow local writes.
func TestMirroredStore(t *testing.T) {
	ctx := context.Background()
	mirror := &storagetest.RecordingMirror{}
	s := store.NewMirroredStore(store.NewSQLiteStore(storagetest.NewDB(t)), mirror)

	require.NoError(t, s.Save(ctx, newMember("m1", "Amy", domain.StatusNew, 0)))
	require.NoError(t, s.Delete(ctx, "m1"))

	calls := mirror.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, storage.CollectionMembers, calls[0].Collection)
	assert.Equal(t, "upsert", calls[0].Op)
	assert.Equal(t, "delete", calls[1].Op)
	assert.Equal(t, "m1", calls[1].ID)
}
