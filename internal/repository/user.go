package repository

import (
	"context"

	"ridebooking/internal/domain"
)

// UserRepository defines the persistence operations for users and their
// cached wallet balances.
type UserRepository interface {
	// Create adds a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a non-deleted user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByPhone retrieves a user by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// AdjustWalletBalance applies a signed delta to the cached balance and
	// returns the new balance. With enforceNonNegative set, the update is
	// guarded by wallet_balance + delta >= 0 and a failed guard surfaces as
	// ErrPreconditionFailed. Must run inside the same atomic unit as the
	// ledger row that justifies the delta.
	AdjustWalletBalance(ctx context.Context, userID string, delta float64, enforceNonNegative bool) (float64, error)
}
