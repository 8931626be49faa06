package repository

import (
	"context"

	"ridebooking/internal/domain"
)

// DiscountCodeRepository defines the persistence operations for discount codes.
type DiscountCodeRepository interface {
	// Create persists a new discount code.
	Create(ctx context.Context, code *domain.DiscountCode) error

	// GetByCode retrieves a non-deleted discount code by its code string.
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)

	// GetByID retrieves a non-deleted discount code by ID.
	GetByID(ctx context.Context, id string) (*domain.DiscountCode, error)

	// IncrementUsage bumps usage_count by one, guarded by
	// usage_count < usage_limit when a limit is set. A failed guard surfaces
	// as ErrPreconditionFailed so a settlement can roll back rather than
	// oversell the code.
	IncrementUsage(ctx context.Context, id string) error

	// SoftDelete marks a discount code deleted.
	SoftDelete(ctx context.Context, id string) error
}
