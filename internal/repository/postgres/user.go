package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, phone, role, wallet_balance)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query, user.ID, user.Name, user.Phone, user.Role, user.WalletBalance)
	return err
}

// GetByID retrieves a non-deleted user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(phone, ''), role, wallet_balance, created_at
		FROM users WHERE id = $1 AND deleted_at IS NULL
	`
	return r.scanUser(r.q.QueryRowContext(ctx, query, id))
}

// GetByPhone retrieves a user by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(phone, ''), role, wallet_balance, created_at
		FROM users WHERE phone = $1 AND deleted_at IS NULL
	`
	return r.scanUser(r.q.QueryRowContext(ctx, query, phone))
}

// AdjustWalletBalance applies a signed delta to the cached balance and returns
// the new balance. The non-negative guard lives inside the UPDATE so a debit
// racing another debit can never overdraw.
func (r *UserRepository) AdjustWalletBalance(ctx context.Context, userID string, delta float64, enforceNonNegative bool) (float64, error) {
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance + $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
		  AND ($3 = false OR wallet_balance + $1 >= 0)
		RETURNING wallet_balance
	`

	var balance float64
	err := r.q.QueryRowContext(ctx, query, delta, userID, enforceNonNegative).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrPreconditionFailed
		}
		return 0, err
	}

	return balance, nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Phone, &user.Role, &user.WalletBalance, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Ensure UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)
