package domain

import "time"

// UserRole distinguishes the callers the core serves. Authentication itself
// happens upstream; the core only receives an already-resolved id and role.
type UserRole string

const (
	UserRolePassenger UserRole = "passenger"
	UserRoleDriver    UserRole = "driver"
	UserRoleAdmin     UserRole = "admin"
)

// User represents an account holding a wallet.
// WalletBalance is a cached, authoritative value: it is only ever updated in
// the same atomic unit as the transaction row that changes it.
type User struct {
	ID            string
	Name          string
	Phone         string
	Role          UserRole
	WalletBalance float64
	CreatedAt     time.Time
}
