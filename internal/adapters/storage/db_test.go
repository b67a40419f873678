package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB creates a private in-memory SQLite database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	return names
}

// TestMigrateDB_Fresh verifies all migrations apply to an empty database.
func TestMigrateDB_Fresh(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	v, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, MigrateDB(ctx, db))

	v, err = SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), v)
	assert.Equal(t, []string{
		"account", "booking", "media_item", "member", "outbox",
		"push_message", "schema_version", "session_note", "setting", "task",
	}, tableNames(t, db))
}

// TestMigrateDB_Idempotent verifies a second run is a no-op and keeps data.
func TestMigrateDB_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, MigrateDB(ctx, db))

	_, err := db.Exec(`INSERT INTO booking (id, name, email, status, created_at, updated_at) VALUES ('b1', 'Amy', 'amy@example.com', 'pending', 'x', 'x')`)
	require.NoError(t, err)

	require.NoError(t, MigrateDB(ctx, db))

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&rows))
	assert.Equal(t, len(migrations), rows, "each migration recorded once")

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM booking WHERE id = 'b1'`).Scan(&name))
	assert.Equal(t, "Amy", name)
}

// TestMigrateDB_Partial verifies only newer migrations run on an older database.
func TestMigrateDB_Partial(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.Exec(`CREATE TABLE schema_version (version INTEGER NOT NULL, applied_at TEXT NOT NULL)`)
	require.NoError(t, err)
	require.NoError(t, applyMigration(ctx, db, migrations[0]))

	v, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, MigrateDB(ctx, db))

	var idx int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_task_due'`).Scan(&idx))
	assert.Equal(t, 1, idx)
}

// TestOpen_Memory verifies Open returns a usable shared in-memory database.
func TestOpen_Memory(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, MigrateDB(context.Background(), db))
}

// TestTimeHelpers verifies formatting round-trips and zero handling.
func TestTimeHelpers(t *testing.T) {
	assert.Equal(t, "", FormatTime(time.Time{}))

	zero, err := ParseTime("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	loc := time.FixedZone("TPE", 8*3600)
	in := time.Date(2026, 3, 4, 13, 5, 6, 789, loc)
	out, err := ParseTime(FormatTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}
