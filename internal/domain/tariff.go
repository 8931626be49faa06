package domain

import "time"

// Tariff is a price-per-kilometer rule keyed by trip type and optionally a
// city. Fare estimation uses the most recently created matching tariff.
type Tariff struct {
	ID         string
	CityID     string
	TripType   TripType
	PricePerKM float64
	CreatedAt  time.Time
}
