package domain

import "time"

// DiscountType represents how a discount code's value is applied.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// DiscountCode is a promotional code applicable to at most one trip per user.
// UsageCount never exceeds UsageLimit; the increment happens inside the same
// atomic unit as trip settlement.
type DiscountCode struct {
	ID                string
	Code              string
	Type              DiscountType
	Value             float64
	MinTripAmount     *float64
	MaxDiscountAmount *float64
	UsageLimit        *int
	UsageCount        int
	ValidFrom         *time.Time
	ValidUntil        *time.Time
	IsActive          bool
	CreatedAt         time.Time
}
