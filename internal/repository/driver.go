package repository

import (
	"context"

	"ridebooking/internal/domain"
)

// DriverRepository defines the persistence operations for driver profiles.
type DriverRepository interface {
	// Create adds a new driver profile in pending approval state.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByUserID retrieves a non-deleted driver profile by its owning user.
	GetByUserID(ctx context.Context, userID string) (*domain.Driver, error)

	// UpdateApproval sets the driver's approval status.
	UpdateApproval(ctx context.Context, userID string, status domain.DriverApprovalStatus) error

	// CountAvailable counts approved, non-deleted drivers not currently
	// referenced by any active trip.
	CountAvailable(ctx context.Context) (int, error)
}
