package account

import (
	"context"

	domain "coachsite/internal/domain/account"
)

// Store persists admin Accounts.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	// GetByEmail matches ignoring case.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Count(ctx context.Context) (int, error)
}
