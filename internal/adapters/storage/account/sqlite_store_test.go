package account_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	store "coachsite/internal/adapters/storage/account"
	"coachsite/internal/adapters/storage/storagetest"
	domain "coachsite/internal/domain/account"
)

// TestSQLiteStore_LockoutFields verifies lockout state round trips.
func TestSQLiteStore_LockoutFields(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLiteStore(storagetest.NewDB(t))
	now := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	a := domain.Account{ID: "a1", Email: "Coach@Example.com", PasswordHash: "$2a$hash", Role: domain.RoleAdmin, CreatedAt: now}
	require.NoError(t, s.Save(ctx, a))

	got, err := s.GetByEmail(ctx, "coach@example.com")
	require.NoError(t, err)
	assert.True(t, got.LockedUntil.IsZero())
	assert.True(t, got.LastLoginAt.IsZero())

	got.FailedLogins = 5
	got.LockedUntil = now.Add(15 * time.Minute)
	require.NoError(t, s.Save(ctx, got))
	got, err = s.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.FailedLogins)
	assert.True(t, got.LockedUntil.Equal(now.Add(15*time.Minute)))

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
