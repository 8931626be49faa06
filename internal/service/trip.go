package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// TripService drives the trip lifecycle from request to settled completion.
// Every state change goes through a guarded conditional update, so concurrent
// callers cannot push a trip through an illegal transition.
type TripService struct {
	store      repository.Store
	assignment *AssignmentService
	settlement *SettlementService
}

// NewTripService creates a new TripService.
func NewTripService(store repository.Store, assignment *AssignmentService, settlement *SettlementService) *TripService {
	return &TripService{store: store, assignment: assignment, settlement: settlement}
}

// CreateRequest contains the parameters for requesting a trip.
type CreateRequest struct {
	PassengerID    string
	Type           domain.TripType
	Start          domain.Point
	End            domain.Point
	DiscountCodeID string
}

// Create registers a new pending trip for the passenger.
func (s *TripService) Create(ctx context.Context, req CreateRequest) (*domain.Trip, error) {
	if req.PassengerID == "" {
		return nil, ErrInvalidUserID
	}
	if !domain.ValidTripType(req.Type) {
		return nil, ErrInvalidTripType
	}
	if req.Start.Validate() != nil || req.End.Validate() != nil {
		return nil, ErrInvalidLocation
	}

	if _, err := s.store.Users().GetByID(ctx, req.PassengerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPassengerNotFound
		}
		return nil, err
	}

	now := time.Now()
	trip := &domain.Trip{
		ID:             uuid.New().String(),
		PassengerID:    req.PassengerID,
		Type:           req.Type,
		Status:         domain.TripStatusPending,
		StartLocation:  &req.Start,
		EndLocation:    &req.End,
		DiscountCodeID: req.DiscountCodeID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Trips().Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// Accept assigns the driver to a pending trip.
func (s *TripService) Accept(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	return s.assignment.Assign(ctx, tripID, driverID)
}

// Start moves an accepted trip to in_progress and stamps its start time.
// Only the assigned driver may start the trip.
func (s *TripService) Start(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	return s.transition(ctx, tripID, driverID,
		[]domain.TripStatus{domain.TripStatusAccepted},
		domain.TripStatusInProgress,
	)
}

// Complete finishes an in-progress trip and settles the fare in the same
// atomic unit. Either the trip ends up completed with all money moved, or
// nothing changed at all.
func (s *TripService) Complete(ctx context.Context, tripID, driverID string, gross float64) (*domain.Trip, *Settlement, error) {
	if tripID == "" {
		return nil, nil, ErrInvalidTripID
	}
	if driverID == "" {
		return nil, nil, ErrInvalidDriverID
	}
	if gross <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var (
		trip       *domain.Trip
		settlement *Settlement
	)

	err := s.store.Atomic(ctx, func(store repository.Store) error {
		current, err := store.Trips().GetByID(ctx, tripID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTripNotFound
			}
			return err
		}

		err = store.Trips().Transition(ctx, tripID, driverID,
			[]domain.TripStatus{domain.TripStatusInProgress},
			domain.TripStatusCompleted,
		)
		if err != nil {
			if errors.Is(err, repository.ErrPreconditionFailed) {
				return classifyTransitionFailure(current, driverID)
			}
			return err
		}

		settlement, err = s.settlement.settleIn(ctx, store, current, gross)
		if err != nil {
			return err
		}

		trip, err = store.Trips().GetByID(ctx, tripID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return trip, settlement, nil
}

// Cancel cancels an accepted or in-progress trip. No money moves: cancellation
// before settlement leaves both wallets untouched.
func (s *TripService) Cancel(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	return s.transition(ctx, tripID, driverID,
		[]domain.TripStatus{domain.TripStatusAccepted, domain.TripStatusInProgress},
		domain.TripStatusCancelled,
	)
}

// Get retrieves a trip by ID.
func (s *TripService) Get(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.store.Trips().GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	return trip, nil
}

// ListAvailable returns pending trips with no driver, oldest first.
func (s *TripService) ListAvailable(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	limit, offset = clampPage(limit, offset)
	return s.store.Trips().ListAvailable(ctx, limit, offset)
}

// ListByPassenger returns the passenger's trips, newest first.
func (s *TripService) ListByPassenger(ctx context.Context, passengerID string, limit, offset int) ([]*domain.Trip, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}

	limit, offset = clampPage(limit, offset)
	return s.store.Trips().ListByPassenger(ctx, passengerID, limit, offset)
}

// ListByDriver returns the driver's trips, newest first.
func (s *TripService) ListByDriver(ctx context.Context, driverID string, limit, offset int) ([]*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	limit, offset = clampPage(limit, offset)
	return s.store.Trips().ListByDriver(ctx, driverID, limit, offset)
}

func (s *TripService) transition(ctx context.Context, tripID, driverID string, from []domain.TripStatus, to domain.TripStatus) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	err := s.store.Trips().Transition(ctx, tripID, driverID, from, to)
	if err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return nil, s.classifyTransitionByRead(ctx, tripID, driverID)
		}
		return nil, err
	}

	return s.store.Trips().GetByID(ctx, tripID)
}

// classifyTransitionByRead re-reads the trip to turn a zero-row transition
// into the domain error the caller can act on.
func (s *TripService) classifyTransitionByRead(ctx context.Context, tripID, driverID string) error {
	trip, err := s.store.Trips().GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTripNotFound
		}
		return err
	}

	return classifyTransitionFailure(trip, driverID)
}

func classifyTransitionFailure(trip *domain.Trip, driverID string) error {
	if trip.DriverID != "" && trip.DriverID != driverID {
		return ErrNotAssignedDriver
	}
	if trip.Status == domain.TripStatusCompleted {
		return ErrTripAlreadyCompleted
	}
	return ErrInvalidTransition
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
