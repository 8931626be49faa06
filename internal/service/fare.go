package service

import (
	"context"
	"errors"
	"math"

	"ridebooking/internal/domain"
	"ridebooking/internal/redis"
	"ridebooking/internal/repository"
)

const (
	// earthRadiusKm is the Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0

	// defaultPricePerKM applies when no tariff exists for a trip type.
	defaultPricePerKM = 10.0

	// minutesPerKm is the fixed duration heuristic, not a routing estimate.
	minutesPerKm = 2.0
)

// FareService estimates trip cost and availability. Pure computation over
// current data: it has no side effects.
type FareService struct {
	store       repository.Store
	tariffCache *redis.TariffCache
}

// NewFareService creates a new FareService. tariffCache may be nil.
func NewFareService(store repository.Store, tariffCache *redis.TariffCache) *FareService {
	return &FareService{store: store, tariffCache: tariffCache}
}

// EstimateRequest contains the parameters for a fare estimate.
type EstimateRequest struct {
	Start domain.Point
	End   domain.Point
	Type  domain.TripType
}

// Estimate is the result of a fare estimation.
type Estimate struct {
	DistanceKm       float64
	Price            float64
	DurationMinutes  int
	AvailableDrivers int
}

// Estimate computes distance, price, duration and driver availability for a
// prospective trip.
func (s *FareService) Estimate(ctx context.Context, req EstimateRequest) (*Estimate, error) {
	if !domain.ValidTripType(req.Type) {
		return nil, ErrInvalidTripType
	}
	if req.Start.Validate() != nil || req.End.Validate() != nil {
		return nil, ErrInvalidLocation
	}

	distance := HaversineKm(req.Start, req.End)

	pricePerKM, err := s.pricePerKM(ctx, req.Type)
	if err != nil {
		return nil, err
	}

	available, err := s.store.Drivers().CountAvailable(ctx)
	if err != nil {
		return nil, err
	}

	return &Estimate{
		DistanceKm:       distance,
		Price:            distance * pricePerKM,
		DurationMinutes:  int(math.Round(distance * minutesPerKm)),
		AvailableDrivers: available,
	}, nil
}

// pricePerKM resolves the rate for a trip type: cache, then the most recently
// created matching tariff, then the fixed default.
func (s *FareService) pricePerKM(ctx context.Context, tripType domain.TripType) (float64, error) {
	if s.tariffCache != nil {
		if price, ok, err := s.tariffCache.GetPricePerKM(ctx, string(tripType)); err == nil && ok {
			return price, nil
		}
	}

	tariff, err := s.store.Tariffs().LatestByTripType(ctx, tripType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return defaultPricePerKM, nil
		}
		return 0, err
	}

	if s.tariffCache != nil {
		_ = s.tariffCache.SetPricePerKM(ctx, string(tripType), tariff.PricePerKM)
	}

	return tariff.PricePerKM, nil
}

// HaversineKm returns the great-circle distance between two points in
// kilometers, rounded to two decimal places.
func HaversineKm(a, b domain.Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lng1 := a.Lng * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lng2 := b.Lng * math.Pi / 180

	dLat := lat2 - lat1
	dLng := lng2 - lng1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusKm*c*100) / 100
}
