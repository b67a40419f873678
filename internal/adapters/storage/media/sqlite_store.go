package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/media"
)

const columns = "id, name, url, object_key, content_type, size, alt, usage, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new media store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Item by its ID.
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Item, error) {
	item, err := scan(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM media_item WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, fmt.Errorf("media item not found: %w", err)
	}
	return item, err
}

// Save inserts or replaces an Item.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, i domain.Item) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO media_item (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, url=excluded.url, object_key=excluded.object_key,
		   content_type=excluded.content_type, size=excluded.size, alt=excluded.alt,
		   usage=excluded.usage`,
		i.ID, i.Name, i.URL, i.ObjectKey, i.ContentType, i.Size, i.Alt, i.Usage,
		storage.FormatTime(i.CreatedAt))
	return err
}

// Delete removes an Item row. The stored object is the caller's concern.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM media_item WHERE id = ?", id)
	return err
}

// List returns items newest first.
func (s *SQLiteStore) List(ctx context.Context, usage string) ([]domain.Item, error) {
	query := "SELECT " + columns + " FROM media_item"
	var args []any
	if usage != "" {
		query += " WHERE usage = ?"
		args = append(args, usage)
	}
	rows, err := s.db.QueryContext(ctx, query+" ORDER BY created_at DESC, id ASC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scan(row storage.RowScanner) (domain.Item, error) {
	var i domain.Item
	var createdAt string
	if err := row.Scan(&i.ID, &i.Name, &i.URL, &i.ObjectKey, &i.ContentType, &i.Size,
		&i.Alt, &i.Usage, &createdAt); err != nil {
		return domain.Item{}, err
	}
	t, err := storage.ParseTime(createdAt)
	if err != nil {
		return domain.Item{}, err
	}
	i.CreatedAt = t
	return i, nil
}
