package repository

import (
	"context"

	"ridebooking/internal/domain"
)

// TripRepository defines the persistence operations for trips.
// State-changing operations are atomic conditional updates: they succeed only
// if the guarded prior state still holds, and report a zero-row match as
// ErrPreconditionFailed rather than silent success.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a non-deleted trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// ListAvailable retrieves pending, driverless trips, oldest first.
	ListAvailable(ctx context.Context, limit, offset int) ([]*domain.Trip, error)

	// ListByPassenger retrieves a passenger's trips, newest first.
	ListByPassenger(ctx context.Context, passengerID string, limit, offset int) ([]*domain.Trip, error)

	// ListByDriver retrieves a driver's trips, newest first.
	ListByDriver(ctx context.Context, driverID string, limit, offset int) ([]*domain.Trip, error)

	// ActiveByDriver retrieves the driver's active trip, if any.
	// Returns nil with no error when the driver is idle.
	ActiveByDriver(ctx context.Context, driverID string) (*domain.Trip, error)

	// AssignDriver binds a driver to a trip in one conditional update:
	// the trip must be pending and driverless, and the driver must not hold
	// another active trip. Both guards are evaluated inside the same
	// statement, so two racing accepts resolve to exactly one winner.
	AssignDriver(ctx context.Context, tripID, driverID string) error

	// Transition moves a trip to a new status, guarded by the assigned driver
	// and the set of expected prior statuses. StartTime is stamped on
	// entering in_progress, EndTime on entering completed.
	Transition(ctx context.Context, tripID, driverID string, from []domain.TripStatus, to domain.TripStatus) error

	// AttachPayment sets the trip's payment reference.
	AttachPayment(ctx context.Context, tripID, paymentID string) error

	// CountByDiscountAndPassenger counts trips on which the passenger has
	// already applied the given discount code.
	CountByDiscountAndPassenger(ctx context.Context, discountCodeID, passengerID string) (int, error)
}
