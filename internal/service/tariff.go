package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ridebooking/internal/domain"
	"ridebooking/internal/redis"
	"ridebooking/internal/repository"
)

// TariffService administers pricing rules. A new tariff takes effect on the
// next estimate; the cache entry for its trip type is dropped on create.
type TariffService struct {
	store       repository.Store
	tariffCache *redis.TariffCache
}

// NewTariffService creates a new TariffService. tariffCache may be nil.
func NewTariffService(store repository.Store, tariffCache *redis.TariffCache) *TariffService {
	return &TariffService{store: store, tariffCache: tariffCache}
}

// CreateTariff registers a new price-per-kilometer rule.
func (s *TariffService) CreateTariff(ctx context.Context, cityID string, tripType domain.TripType, pricePerKM float64) (*domain.Tariff, error) {
	if !domain.ValidTripType(tripType) {
		return nil, ErrInvalidTripType
	}
	if pricePerKM <= 0 {
		return nil, ErrInvalidAmount
	}

	tariff := &domain.Tariff{
		ID:         uuid.New().String(),
		CityID:     cityID,
		TripType:   tripType,
		PricePerKM: pricePerKM,
		CreatedAt:  time.Now(),
	}

	if err := s.store.Tariffs().Create(ctx, tariff); err != nil {
		return nil, err
	}

	if s.tariffCache != nil {
		_ = s.tariffCache.Invalidate(ctx, string(tripType))
	}

	return tariff, nil
}

// ListTariffs returns tariffs, newest first.
func (s *TariffService) ListTariffs(ctx context.Context, limit, offset int) ([]*domain.Tariff, error) {
	limit, offset = clampPage(limit, offset)
	return s.store.Tariffs().List(ctx, limit, offset)
}
