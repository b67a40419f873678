package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/booking"
)

const columns = "id, name, email, message, status, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new booking store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Booking by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	b, err := scan(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM booking WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, fmt.Errorf("booking not found: %w", err)
	}
	return b, err
}

// Save inserts or replaces a Booking.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, b domain.Booking) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO booking (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, message=excluded.message,
		   status=excluded.status, updated_at=excluded.updated_at`,
		b.ID, b.Name, b.Email, b.Message, b.Status,
		storage.FormatTime(b.CreatedAt), storage.FormatTime(b.UpdatedAt))
	return err
}

// Delete removes a Booking. Deleting a missing id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM booking WHERE id = ?", id)
	return err
}

// List returns bookings matching filter in the requested order.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Booking, error) {
	where, args := whereClause(filter)
	query := "SELECT " + columns + " FROM booking" + where + orderBy(filter.Sort)
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Count returns the number of bookings matching filter, ignoring paging.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := whereClause(filter)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM booking"+where, args...).Scan(&n)
	return n, err
}

func whereClause(f ListFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if !f.CreatedSince.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, storage.FormatTime(f.CreatedSince))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(sort string) string {
	switch sort {
	case SortDateAsc:
		return " ORDER BY created_at ASC, id ASC"
	case SortStatus:
		return ` ORDER BY CASE status
			WHEN 'pending' THEN 0 WHEN 'contacted' THEN 1
			WHEN 'confirmed' THEN 2 WHEN 'cancelled' THEN 3 ELSE 4 END, created_at DESC, id ASC`
	default:
		return " ORDER BY created_at DESC, id ASC"
	}
}

func scan(row storage.RowScanner) (domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt string
	if err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Message, &b.Status, &createdAt, &updatedAt); err != nil {
		return domain.Booking{}, err
	}
	var err error
	if b.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Booking{}, err
	}
	if b.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}
