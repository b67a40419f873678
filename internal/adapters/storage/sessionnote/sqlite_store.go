package sessionnote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/sessionnote"
)

const columns = "id, member_id, note_date, content, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session note store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Note by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Note, error) {
	n, err := scan(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM session_note WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Note{}, fmt.Errorf("session note not found: %w", err)
	}
	return n, err
}

// Save inserts or replaces a Note.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, n domain.Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_note (`+columns+`) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   member_id=excluded.member_id, note_date=excluded.note_date, content=excluded.content`,
		n.ID, n.MemberID, n.NoteDate, n.Content, storage.FormatTime(n.CreatedAt))
	return err
}

// Delete removes a Note.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session_note WHERE id = ?", id)
	return err
}

// ListByMember returns the member's notes ordered by note date then creation, newest first.
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+columns+" FROM session_note WHERE member_id = ? ORDER BY note_date DESC, created_at DESC",
		memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Note
	for rows.Next() {
		n, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scan(row storage.RowScanner) (domain.Note, error) {
	var n domain.Note
	var createdAt string
	if err := row.Scan(&n.ID, &n.MemberID, &n.NoteDate, &n.Content, &createdAt); err != nil {
		return domain.Note{}, err
	}
	var err error
	n.CreatedAt, err = storage.ParseTime(createdAt)
	return n, err
}
