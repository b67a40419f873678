package member

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/member"
)

const columns = `id, name, email, phone, preferred_contact_time, line_id, line_user_id,
	line_display_name, line_picture_url, tags, source, status, progress_note, created_at, updated_at`

// SQLiteStore implements Store using SQLite. Tags are a JSON array column.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	return s.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves the oldest Member with email, ignoring case.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	return s.getOne(ctx, "email = ? COLLATE NOCASE", strings.TrimSpace(email))
}

// GetByLineUserID retrieves a Member by LINE user id.
func (s *SQLiteStore) GetByLineUserID(ctx context.Context, lineUserID string) (domain.Member, error) {
	return s.getOne(ctx, "line_user_id = ? AND line_user_id != ''", lineUserID)
}

func (s *SQLiteStore) getOne(ctx context.Context, cond string, arg any) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+columns+" FROM member WHERE "+cond+" ORDER BY created_at ASC LIMIT 1", arg)
	m, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return m, err
}

// Save inserts or replaces a Member.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, m domain.Member) error {
	tags, err := json.Marshal(nonNil(m.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO member (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, phone=excluded.phone,
		   preferred_contact_time=excluded.preferred_contact_time, line_id=excluded.line_id,
		   line_user_id=excluded.line_user_id, line_display_name=excluded.line_display_name,
		   line_picture_url=excluded.line_picture_url, tags=excluded.tags, source=excluded.source,
		   status=excluded.status, progress_note=excluded.progress_note, updated_at=excluded.updated_at`,
		m.ID, m.Name, m.Email, m.Phone, m.PreferredContactTime, m.LineID, m.LineUserID,
		m.LineDisplayName, m.LinePictureURL, string(tags), m.Source, m.Status, m.ProgressNote,
		storage.FormatTime(m.CreatedAt), storage.FormatTime(m.UpdatedAt))
	return err
}

// Delete removes a Member. Deleting a missing id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	return err
}

// List returns members matching filter, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	where, args := whereClause(filter)
	query := "SELECT " + columns + " FROM member" + where + " ORDER BY updated_at DESC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the number of members matching filter, ignoring paging.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := whereClause(filter)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member"+where, args...).Scan(&n)
	return n, err
}

func whereClause(f ListFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, "status IN (?"+strings.Repeat(", ?", len(f.Statuses)-1)+")")
		for _, st := range f.Statuses {
			args = append(args, st)
		}
	}
	if f.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, f.Source)
	}
	if f.Tag != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM json_each(member.tags) WHERE json_each.value = ?)")
		args = append(args, f.Tag)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		like := "%" + escapeLike(q) + "%"
		conds = append(conds, `(name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\' OR line_display_name LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like, like)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scan(row storage.RowScanner) (domain.Member, error) {
	var m domain.Member
	var tags, createdAt, updatedAt string
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.PreferredContactTime, &m.LineID,
		&m.LineUserID, &m.LineDisplayName, &m.LinePictureURL, &tags, &m.Source, &m.Status,
		&m.ProgressNote, &createdAt, &updatedAt)
	if err != nil {
		return domain.Member{}, err
	}
	if err := json.Unmarshal([]byte(tags), &m.Tags); err != nil {
		return domain.Member{}, fmt.Errorf("decode tags for member %s: %w", m.ID, err)
	}
	if len(m.Tags) == 0 {
		m.Tags = nil
	}
	if m.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Member{}, err
	}
	if m.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
