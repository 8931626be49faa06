package repository

import (
	"context"

	"ridebooking/internal/domain"
)

// TariffRepository defines the persistence operations for tariffs.
type TariffRepository interface {
	// Create persists a new tariff.
	Create(ctx context.Context, tariff *domain.Tariff) error

	// LatestByTripType retrieves the most recently created tariff for the
	// trip type, city-agnostic. Returns ErrNotFound when no tariff exists.
	LatestByTripType(ctx context.Context, tripType domain.TripType) (*domain.Tariff, error)

	// List retrieves tariffs, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.Tariff, error)
}
