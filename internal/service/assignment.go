package service

import (
	"context"
	"errors"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// AssignmentService pairs drivers with trips. The pairing is exclusive both
// ways: a trip carries at most one driver for its whole lifecycle, and a
// driver holds at most one active trip at a time.
type AssignmentService struct {
	store repository.Store
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(store repository.Store) *AssignmentService {
	return &AssignmentService{store: store}
}

// Assign binds driverID to the pending trip tripID. The decisive step is a
// single conditional update that re-checks the trip's state and the driver's
// availability, so two concurrent assignment attempts on the same trip end
// with exactly one success and one conflict.
func (s *AssignmentService) Assign(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.store.Drivers().GetByUserID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotAvailable
		}
		return nil, err
	}

	if driver.ApprovalStatus != domain.DriverApprovalApproved {
		return nil, ErrDriverNotAvailable
	}

	err = s.store.Trips().AssignDriver(ctx, tripID, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return nil, s.classifyAssignFailure(ctx, tripID, driverID)
		}
		return nil, err
	}

	return s.store.Trips().GetByID(ctx, tripID)
}

// classifyAssignFailure turns a zero-row assignment into the domain error the
// caller can act on. The classification reads are advisory: the atomic update
// already decided the outcome.
func (s *AssignmentService) classifyAssignFailure(ctx context.Context, tripID, driverID string) error {
	trip, err := s.store.Trips().GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTripNotFound
		}
		return err
	}

	if trip.Status != domain.TripStatusPending || trip.DriverID != "" {
		return ErrTripNotAvailable
	}

	active, err := s.store.Trips().ActiveByDriver(ctx, driverID)
	if err != nil {
		return err
	}
	if active != nil {
		return ErrDriverHasActiveTrip
	}

	return ErrTripNotAvailable
}
