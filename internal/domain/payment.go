package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// PaymentType represents how a payment is made.
type PaymentType string

const (
	PaymentTypeCash       PaymentType = "cash"
	PaymentTypeElectronic PaymentType = "electronic"
)

// Payment represents a gross money movement. It is created pending and
// becomes completed only after every ledger transfer that references it
// has committed.
type Payment struct {
	ID          string
	Amount      float64
	Type        PaymentType
	Status      PaymentStatus
	PaymentDate time.Time
	CreatedAt   time.Time
}
