package push

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/push"
)

const columns = "id, title, body, status, audience_filter, scheduled_at, sent_at, recipient_count, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new push message store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Message by its ID.
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Message, error) {
	m, err := scan(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM push_message WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Message{}, fmt.Errorf("push message not found: %w", err)
	}
	return m, err
}

// Save inserts or replaces a Message.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, m domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO push_message (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, body=excluded.body, status=excluded.status,
		   audience_filter=excluded.audience_filter, scheduled_at=excluded.scheduled_at,
		   sent_at=excluded.sent_at, recipient_count=excluded.recipient_count,
		   updated_at=excluded.updated_at`,
		m.ID, m.Title, m.Body, m.Status, m.AudienceFilter,
		storage.FormatTime(m.ScheduledAt), storage.FormatTime(m.SentAt), m.RecipientCount,
		storage.FormatTime(m.CreatedAt), storage.FormatTime(m.UpdatedAt))
	return err
}

// Delete removes a Message.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM push_message WHERE id = ?", id)
	return err
}

// List returns messages newest first. An empty status lists all.
func (s *SQLiteStore) List(ctx context.Context, status string) ([]domain.Message, error) {
	if status == "" {
		return s.query(ctx, "SELECT "+columns+" FROM push_message ORDER BY created_at DESC, id ASC")
	}
	return s.query(ctx, "SELECT "+columns+" FROM push_message WHERE status = ? ORDER BY created_at DESC, id ASC", status)
}

// ListDue returns scheduled messages due at now.
func (s *SQLiteStore) ListDue(ctx context.Context, now time.Time) ([]domain.Message, error) {
	return s.query(ctx,
		"SELECT "+columns+" FROM push_message WHERE status = ? AND scheduled_at != '' AND scheduled_at <= ? ORDER BY scheduled_at ASC",
		domain.StatusScheduled, storage.FormatTime(now))
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scan(row storage.RowScanner) (domain.Message, error) {
	var m domain.Message
	var scheduledAt, sentAt, createdAt, updatedAt string
	if err := row.Scan(&m.ID, &m.Title, &m.Body, &m.Status, &m.AudienceFilter,
		&scheduledAt, &sentAt, &m.RecipientCount, &createdAt, &updatedAt); err != nil {
		return domain.Message{}, err
	}
	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&m.ScheduledAt, scheduledAt},
		{&m.SentAt, sentAt},
		{&m.CreatedAt, createdAt},
		{&m.UpdatedAt, updatedAt},
	} {
		t, err := storage.ParseTime(f.src)
		if err != nil {
			return domain.Message{}, err
		}
		*f.dst = t
	}
	return m, nil
}
