package domain

import "time"

// DriverApprovalStatus represents the approval state of a driver profile.
type DriverApprovalStatus string

const (
	DriverApprovalPending  DriverApprovalStatus = "pending"
	DriverApprovalApproved DriverApprovalStatus = "approved"
	DriverApprovalRejected DriverApprovalStatus = "rejected"
)

// Driver represents a driver profile owned 1:1 by a User.
// Only approved, non-deleted drivers are assignable to trips.
type Driver struct {
	UserID         string
	LicenseNumber  string
	VehiclePlate   string
	VehicleModel   string
	ApprovalStatus DriverApprovalStatus
	CreatedAt      time.Time
}
