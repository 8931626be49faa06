package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// TariffRepository is a PostgreSQL implementation of repository.TariffRepository.
type TariffRepository struct {
	q Querier
}

// Create persists a new tariff.
func (r *TariffRepository) Create(ctx context.Context, tariff *domain.Tariff) error {
	query := `
		INSERT INTO tariffs (id, city_id, trip_type, price_per_km)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.q.ExecContext(ctx, query, tariff.ID, nullString(tariff.CityID), tariff.TripType, tariff.PricePerKM)
	return err
}

// LatestByTripType retrieves the most recently created tariff for the trip
// type, city-agnostic.
func (r *TariffRepository) LatestByTripType(ctx context.Context, tripType domain.TripType) (*domain.Tariff, error) {
	query := `
		SELECT id, COALESCE(city_id::text, ''), trip_type, price_per_km, created_at
		FROM tariffs
		WHERE trip_type = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var tariff domain.Tariff
	err := r.q.QueryRowContext(ctx, query, tripType).Scan(
		&tariff.ID,
		&tariff.CityID,
		&tariff.TripType,
		&tariff.PricePerKM,
		&tariff.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &tariff, nil
}

// List retrieves tariffs, newest first.
func (r *TariffRepository) List(ctx context.Context, limit, offset int) ([]*domain.Tariff, error) {
	query := `
		SELECT id, COALESCE(city_id::text, ''), trip_type, price_per_km, created_at
		FROM tariffs
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.q.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tariffs []*domain.Tariff
	for rows.Next() {
		var tariff domain.Tariff
		if err := rows.Scan(&tariff.ID, &tariff.CityID, &tariff.TripType, &tariff.PricePerKM, &tariff.CreatedAt); err != nil {
			return nil, err
		}
		tariffs = append(tariffs, &tariff)
	}

	return tariffs, rows.Err()
}

// Ensure TariffRepository implements repository.TariffRepository.
var _ repository.TariffRepository = (*TariffRepository)(nil)
