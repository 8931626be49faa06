package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// Create adds a new driver profile in pending approval state.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (user_id, license_number, vehicle_plate, vehicle_model, approval_status)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query,
		driver.UserID,
		driver.LicenseNumber,
		driver.VehiclePlate,
		driver.VehicleModel,
		driver.ApprovalStatus,
	)
	return err
}

// GetByUserID retrieves a non-deleted driver profile by its owning user.
func (r *DriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	query := `
		SELECT user_id, COALESCE(license_number, ''), COALESCE(vehicle_plate, ''),
		       COALESCE(vehicle_model, ''), approval_status, created_at
		FROM drivers WHERE user_id = $1 AND deleted_at IS NULL
	`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&driver.UserID,
		&driver.LicenseNumber,
		&driver.VehiclePlate,
		&driver.VehicleModel,
		&driver.ApprovalStatus,
		&driver.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

// UpdateApproval sets the driver's approval status.
func (r *DriverRepository) UpdateApproval(ctx context.Context, userID string, status domain.DriverApprovalStatus) error {
	query := `UPDATE drivers SET approval_status = $1, updated_at = NOW() WHERE user_id = $2 AND deleted_at IS NULL`

	result, err := r.q.ExecContext(ctx, query, status, userID)
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

// CountAvailable counts approved, non-deleted drivers whose user id is not
// referenced by an occupying trip. A trip that is merely accepted does not
// remove its driver from the estimate count.
func (r *DriverRepository) CountAvailable(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM drivers d
		WHERE d.approval_status = $1
		  AND d.deleted_at IS NULL
		  AND d.user_id NOT IN (
		      SELECT driver_id FROM trips
		      WHERE trip_status = ANY($2)
		        AND driver_id IS NOT NULL
		        AND deleted_at IS NULL
		  )
	`

	var count int
	occupying := []string{
		string(domain.TripStatusPending),
		string(domain.TripStatusInProgress),
		string(domain.TripStatusWaiting),
	}

	err := r.q.QueryRowContext(ctx, query,
		domain.DriverApprovalApproved,
		pq.Array(occupying),
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
