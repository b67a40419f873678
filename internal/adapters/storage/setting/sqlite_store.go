package setting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coachsite/internal/adapters/storage"
)

// SQLiteStore implements Store using the setting table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new settings store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the entry under key.
// POST: Returns the entry or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, error) {
	e, err := scan(s.db.QueryRowContext(ctx, "SELECT key, value, updated_at FROM setting WHERE key = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("setting %s not found: %w", key, err)
	}
	return e, err
}

// Put inserts or replaces the entry.
func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO setting (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		e.Key, string(e.Value), storage.FormatTime(e.UpdatedAt))
	return err
}

// List returns every entry ordered by key.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value, updated_at FROM setting ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scan(row storage.RowScanner) (Entry, error) {
	var e Entry
	var value, updatedAt string
	if err := row.Scan(&e.Key, &value, &updatedAt); err != nil {
		return Entry{}, err
	}
	e.Value = []byte(value)
	t, err := storage.ParseTime(updatedAt)
	if err != nil {
		return Entry{}, err
	}
	e.UpdatedAt = t
	return e, nil
}
