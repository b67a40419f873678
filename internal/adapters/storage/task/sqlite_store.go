package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/task"
)

const columns = "id, member_id, title, description, status, due_date, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new task store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Task by its ID.
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Task, error) {
	t, err := scan(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM task WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, fmt.Errorf("task not found: %w", err)
	}
	return t, err
}

// Save inserts or replaces a Task.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, t domain.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO task (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   member_id=excluded.member_id, title=excluded.title, description=excluded.description,
		   status=excluded.status, due_date=excluded.due_date, updated_at=excluded.updated_at`,
		t.ID, t.MemberID, t.Title, t.Description, t.Status, t.DueDate,
		storage.FormatTime(t.CreatedAt), storage.FormatTime(t.UpdatedAt))
	return err
}

// Delete removes a Task.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM task WHERE id = ?", id)
	return err
}

// List returns tasks matching filter.
func (s *SQLiteStore) List(ctx context.Context, f ListFilter) ([]domain.Task, error) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if f.MemberID != "" {
		add("member_id = ?", f.MemberID)
	}
	if f.Status != "" {
		add("status = ?", f.Status)
	}
	if f.OpenOnly {
		add("status != ?", domain.StatusDone)
	}
	if f.DueFrom != "" {
		add("due_date != '' AND due_date >= ?", f.DueFrom)
	}
	if f.DueTo != "" {
		add("due_date != '' AND due_date <= ?", f.DueTo)
	}
	query := "SELECT " + columns + " FROM task"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY due_date = '', due_date ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scan(row storage.RowScanner) (domain.Task, error) {
	var t domain.Task
	var createdAt, updatedAt string
	if err := row.Scan(&t.ID, &t.MemberID, &t.Title, &t.Description, &t.Status, &t.DueDate, &createdAt, &updatedAt); err != nil {
		return domain.Task{}, err
	}
	var err error
	if t.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Task{}, err
	}
	if t.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}
