package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusPending    TripStatus = "pending"
	TripStatusAccepted   TripStatus = "accepted"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
	TripStatusFailed     TripStatus = "failed"

	// TripStatusWaiting is reserved for intermediate stops on shared trips.
	// No lifecycle operation enters it, but it counts as active for
	// driver-exclusivity checks.
	TripStatusWaiting TripStatus = "waiting"
)

// ActiveTripStatuses are the statuses during which a trip occupies its driver.
var ActiveTripStatuses = []TripStatus{
	TripStatusPending,
	TripStatusAccepted,
	TripStatusInProgress,
	TripStatusWaiting,
}

// TripType represents the category of a trip.
type TripType string

const (
	TripTypeUrban     TripType = "urban"
	TripTypeIntercity TripType = "intercity"
	TripTypeShared    TripType = "shared"
	TripTypeEconomy   TripType = "economy"
)

// ValidTripType reports whether t is one of the known trip types.
func ValidTripType(t TripType) bool {
	switch t {
	case TripTypeUrban, TripTypeIntercity, TripTypeShared, TripTypeEconomy:
		return true
	}
	return false
}

// Trip represents one passenger-to-destination booking.
// DriverID is empty until a driver accepts; it is set at most once per
// lifecycle. PaymentID is set only at completion.
type Trip struct {
	ID             string
	PassengerID    string
	DriverID       string
	RouteID        string
	Type           TripType
	Status         TripStatus
	StartLocation  *Point
	EndLocation    *Point
	DiscountCodeID string
	PaymentID      string
	StartTime      time.Time
	EndTime        time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
