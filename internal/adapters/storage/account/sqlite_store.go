package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"coachsite/internal/adapters/storage"
	domain "coachsite/internal/domain/account"
)

const columns = "id, email, password_hash, role, created_at, failed_logins, locked_until, last_login_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves an Account by email.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.getOne(ctx, "email = ? COLLATE NOCASE", strings.TrimSpace(email))
}

func (s *SQLiteStore) getOne(ctx context.Context, cond string, arg any) (domain.Account, error) {
	a, err := scan(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM account WHERE "+cond, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return a, err
}

// Save persists an Account.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email=excluded.email, password_hash=excluded.password_hash, role=excluded.role,
		   failed_logins=excluded.failed_logins, locked_until=excluded.locked_until,
		   last_login_at=excluded.last_login_at`,
		a.ID, a.Email, a.PasswordHash, a.Role, storage.FormatTime(a.CreatedAt),
		a.FailedLogins, storage.FormatTime(a.LockedUntil), storage.FormatTime(a.LastLoginAt))
	return err
}

// Count returns the total number of accounts.
// PRE: none
// POST: Returns total account count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

func scan(row storage.RowScanner) (domain.Account, error) {
	var a domain.Account
	var createdAt, lockedUntil, lastLogin string
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &createdAt,
		&a.FailedLogins, &lockedUntil, &lastLogin); err != nil {
		return domain.Account{}, err
	}
	var err error
	if a.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Account{}, err
	}
	if a.LockedUntil, err = storage.ParseTime(lockedUntil); err != nil {
		return domain.Account{}, err
	}
	if a.LastLoginAt, err = storage.ParseTime(lastLogin); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}
