package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"coachsite/internal/domain/account"
)

// AccountStoreForAuth defines the store interface needed by the auth orchestrators.
type AccountStoreForAuth interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// --- Seed Admin ---

// SeedAdminInput carries the bootstrap admin credentials.
type SeedAdminInput struct {
	Email    string
	Password string
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForAuth
	GenerateID   func() string
	Now          func() time.Time
	HashPassword func(a *account.Account, plaintext string) error // nil uses SetPassword
}

// ExecuteSeedAdmin creates the first admin account when none exists.
// PRE: Email and Password satisfy account validation
// POST: returns true if an account was created; existing accounts are untouched
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) (bool, error) {
	n, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	a := account.Account{
		ID:        deps.GenerateID(),
		Email:     strings.TrimSpace(input.Email),
		Role:      account.RoleAdmin,
		CreatedAt: deps.Now(),
	}
	if err := a.Validate(); err != nil {
		return false, invalid(err)
	}
	hash := deps.HashPassword
	if hash == nil {
		hash = (*account.Account).SetPassword
	}
	if err := hash(&a, input.Password); err != nil {
		return false, invalid(err)
	}
	if err := deps.AccountStore.Save(ctx, a); err != nil {
		return false, err
	}
	slog.Info("auth_event", "event", "admin_seeded", "email", a.Email)
	return true, nil
}

// --- Login ---

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID string
	Email     string
	Role      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForAuth
	Now          func() time.Time
}

// ExecuteLogin validates credentials and returns account info for session creation.
// PRE: Valid email and password provided
// POST: Returns account info on success, records failed login on failure
// INVARIANT: a locked account is refused even with the right password
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	now := deps.Now()
	if acct.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", input.Email, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "lockout_save_failed", "email", input.Email, "error", err)
		}
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		if acct.IsLocked(now) {
			return LoginResult{}, ErrAccountLocked
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	acct.RecordSuccessfulLogin(now)
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return LoginResult{}, err
	}
	slog.Info("auth_event", "event", "login_success", "email", acct.Email, "role", acct.Role)

	return LoginResult{AccountID: acct.ID, Email: acct.Email, Role: acct.Role}, nil
}
