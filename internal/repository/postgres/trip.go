package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

const tripColumns = `
	id, passenger_id, driver_id, route_id, trip_type, trip_status,
	start_lat, start_lng, end_lat, end_lng,
	discount_code_id, payment_id, start_time, end_time, created_at, updated_at
`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, passenger_id, driver_id, route_id, trip_type, trip_status,
		                   start_lat, start_lng, end_lat, end_lng, discount_code_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var startLat, startLng, endLat, endLng sql.NullFloat64
	if trip.StartLocation != nil {
		startLat = sql.NullFloat64{Float64: trip.StartLocation.Lat, Valid: true}
		startLng = sql.NullFloat64{Float64: trip.StartLocation.Lng, Valid: true}
	}
	if trip.EndLocation != nil {
		endLat = sql.NullFloat64{Float64: trip.EndLocation.Lat, Valid: true}
		endLng = sql.NullFloat64{Float64: trip.EndLocation.Lng, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.PassengerID,
		nullString(trip.DriverID),
		nullString(trip.RouteID),
		trip.Type,
		trip.Status,
		startLat,
		startLng,
		endLat,
		endLng,
		nullString(trip.DiscountCodeID),
	)

	return err
}

// GetByID retrieves a non-deleted trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND deleted_at IS NULL`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// ListAvailable retrieves pending, driverless trips, oldest first.
func (r *TripRepository) ListAvailable(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE trip_status = $1 AND driver_id IS NULL AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	return r.queryTrips(ctx, query, domain.TripStatusPending, limit, offset)
}

// ListByPassenger retrieves a passenger's trips, newest first.
func (r *TripRepository) ListByPassenger(ctx context.Context, passengerID string, limit, offset int) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE passenger_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryTrips(ctx, query, passengerID, limit, offset)
}

// ListByDriver retrieves a driver's trips, newest first.
func (r *TripRepository) ListByDriver(ctx context.Context, driverID string, limit, offset int) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryTrips(ctx, query, driverID, limit, offset)
}

// ActiveByDriver retrieves the driver's active trip, if any. Returns nil with
// no error when the driver is idle.
func (r *TripRepository) ActiveByDriver(ctx context.Context, driverID string) (*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = $1 AND trip_status = ANY($2) AND deleted_at IS NULL
		LIMIT 1
	`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, driverID, pq.Array(statusStrings(domain.ActiveTripStatuses))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return trip, nil
}

// AssignDriver binds a driver to a pending, driverless trip. The driver's
// availability is re-validated inside the same statement, so two racing
// accepts (or one driver racing for two trips) resolve to one winner.
func (r *TripRepository) AssignDriver(ctx context.Context, tripID, driverID string) error {
	query := `
		UPDATE trips
		SET driver_id = $1, trip_status = $2, updated_at = NOW()
		WHERE id = $3
		  AND trip_status = $4
		  AND driver_id IS NULL
		  AND deleted_at IS NULL
		  AND NOT EXISTS (
		      SELECT 1 FROM trips held
		      WHERE held.driver_id = $1
		        AND held.trip_status = ANY($5)
		        AND held.deleted_at IS NULL
		  )
	`

	result, err := r.q.ExecContext(ctx, query,
		driverID,
		domain.TripStatusAccepted,
		tripID,
		domain.TripStatusPending,
		pq.Array(statusStrings(domain.ActiveTripStatuses)),
	)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// Transition moves a trip to a new status, guarded by the assigned driver and
// the expected prior statuses.
func (r *TripRepository) Transition(ctx context.Context, tripID, driverID string, from []domain.TripStatus, to domain.TripStatus) error {
	query := `
		UPDATE trips
		SET trip_status = $1,
		    start_time = CASE WHEN $1 = 'in_progress' THEN NOW() ELSE start_time END,
		    end_time   = CASE WHEN $1 = 'completed'   THEN NOW() ELSE end_time END,
		    updated_at = NOW()
		WHERE id = $2
		  AND driver_id = $3
		  AND trip_status = ANY($4)
		  AND deleted_at IS NULL
	`

	result, err := r.q.ExecContext(ctx, query,
		to,
		tripID,
		driverID,
		pq.Array(statusStrings(from)),
	)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// AttachPayment sets the trip's payment reference, at most once.
func (r *TripRepository) AttachPayment(ctx context.Context, tripID, paymentID string) error {
	query := `
		UPDATE trips
		SET payment_id = $1, updated_at = NOW()
		WHERE id = $2 AND payment_id IS NULL AND deleted_at IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, paymentID, tripID)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// CountByDiscountAndPassenger counts trips on which the passenger has already
// applied the given discount code.
func (r *TripRepository) CountByDiscountAndPassenger(ctx context.Context, discountCodeID, passengerID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM trips
		WHERE discount_code_id = $1 AND passenger_id = $2 AND deleted_at IS NULL
	`

	var count int
	if err := r.q.QueryRowContext(ctx, query, discountCodeID, passengerID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *TripRepository) queryTrips(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var driverID, routeID, discountCodeID, paymentID sql.NullString
	var startLat, startLng, endLat, endLng sql.NullFloat64
	var startTime, endTime sql.NullTime

	err := row.Scan(
		&trip.ID,
		&trip.PassengerID,
		&driverID,
		&routeID,
		&trip.Type,
		&trip.Status,
		&startLat,
		&startLng,
		&endLat,
		&endLng,
		&discountCodeID,
		&paymentID,
		&startTime,
		&endTime,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	trip.DriverID = driverID.String
	trip.RouteID = routeID.String
	trip.DiscountCodeID = discountCodeID.String
	trip.PaymentID = paymentID.String

	if startLat.Valid && startLng.Valid {
		trip.StartLocation = &domain.Point{Lat: startLat.Float64, Lng: startLng.Float64}
	}
	if endLat.Valid && endLng.Valid {
		trip.EndLocation = &domain.Point{Lat: endLat.Float64, Lng: endLng.Float64}
	}
	if startTime.Valid {
		trip.StartTime = startTime.Time
	}
	if endTime.Valid {
		trip.EndTime = endTime.Time
	}

	return &trip, nil
}

func statusStrings(statuses []domain.TripStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// requireRow converts a zero-row conditional update into
// repository.ErrPreconditionFailed.
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrPreconditionFailed
	}
	return nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
