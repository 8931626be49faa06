package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// DiscountCodeRepository is a PostgreSQL implementation of
// repository.DiscountCodeRepository.
type DiscountCodeRepository struct {
	q Querier
}

const discountColumns = `
	id, code, discount_type, discount_value, min_trip_amount, max_discount_amount,
	usage_limit, usage_count, valid_from, valid_until, is_active, created_at
`

// Create persists a new discount code.
func (r *DiscountCodeRepository) Create(ctx context.Context, code *domain.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (id, code, discount_type, discount_value, min_trip_amount,
		                            max_discount_amount, usage_limit, usage_count, valid_from,
		                            valid_until, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		code.ID,
		code.Code,
		code.Type,
		code.Value,
		code.MinTripAmount,
		code.MaxDiscountAmount,
		code.UsageLimit,
		code.UsageCount,
		code.ValidFrom,
		code.ValidUntil,
		code.IsActive,
	)

	return err
}

// GetByCode retrieves a non-deleted discount code by its code string.
func (r *DiscountCodeRepository) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE code = $1 AND deleted_at IS NULL`
	return r.scanDiscount(r.q.QueryRowContext(ctx, query, code))
}

// GetByID retrieves a non-deleted discount code by ID.
func (r *DiscountCodeRepository) GetByID(ctx context.Context, id string) (*domain.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE id = $1 AND deleted_at IS NULL`
	return r.scanDiscount(r.q.QueryRowContext(ctx, query, id))
}

// IncrementUsage bumps usage_count by one. The usage_limit cap is enforced by
// the WHERE clause, so N+1 racing settlements can commit at most N increments.
func (r *DiscountCodeRepository) IncrementUsage(ctx context.Context, id string) error {
	query := `
		UPDATE discount_codes
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1
		  AND deleted_at IS NULL
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
	`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// SoftDelete marks a discount code deleted.
func (r *DiscountCodeRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE discount_codes SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *DiscountCodeRepository) scanDiscount(row *sql.Row) (*domain.DiscountCode, error) {
	var code domain.DiscountCode
	var minAmount, maxAmount sql.NullFloat64
	var usageLimit sql.NullInt64
	var validFrom, validUntil sql.NullTime

	err := row.Scan(
		&code.ID,
		&code.Code,
		&code.Type,
		&code.Value,
		&minAmount,
		&maxAmount,
		&usageLimit,
		&code.UsageCount,
		&validFrom,
		&validUntil,
		&code.IsActive,
		&code.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if minAmount.Valid {
		code.MinTripAmount = &minAmount.Float64
	}
	if maxAmount.Valid {
		code.MaxDiscountAmount = &maxAmount.Float64
	}
	if usageLimit.Valid {
		limit := int(usageLimit.Int64)
		code.UsageLimit = &limit
	}
	if validFrom.Valid {
		code.ValidFrom = &validFrom.Time
	}
	if validUntil.Valid {
		code.ValidUntil = &validUntil.Time
	}

	return &code, nil
}

// Ensure DiscountCodeRepository implements repository.DiscountCodeRepository.
var _ repository.DiscountCodeRepository = (*DiscountCodeRepository)(nil)
