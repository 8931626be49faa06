package service

import "errors"

var (
	// ErrPassengerNotFound is returned when the passenger does not exist.
	ErrPassengerNotFound = errors.New("passenger not found")

	// ErrUserNotFound is returned when a wallet operation targets a missing user.
	ErrUserNotFound = errors.New("user not found")

	// ErrTripNotFound is returned when the trip does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrDriverNotAvailable is returned when the driver profile is missing,
	// rejected or awaiting approval.
	ErrDriverNotAvailable = errors.New("driver not available")

	// ErrDriverHasActiveTrip is returned when the driver already holds an
	// active trip.
	ErrDriverHasActiveTrip = errors.New("driver is already on another trip")

	// ErrTripNotAvailable is returned when a trip can no longer be accepted:
	// it was taken by another driver or left the pending state.
	ErrTripNotAvailable = errors.New("trip not available")

	// ErrNotAssignedDriver is returned when a driver operates on a trip
	// assigned to someone else.
	ErrNotAssignedDriver = errors.New("driver not assigned to this trip")

	// ErrTripAlreadyCompleted is returned when completing or settling a trip
	// that already completed.
	ErrTripAlreadyCompleted = errors.New("trip already completed")

	// ErrInvalidTransition is returned when the trip's current state does not
	// permit the requested transition.
	ErrInvalidTransition = errors.New("trip state does not permit this operation")

	// ErrInsufficientFunds is returned when a debit exceeds the wallet balance.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrDiscountLimitReached is returned when a settlement would push a
	// discount code past its usage limit.
	ErrDiscountLimitReached = errors.New("discount code usage limit reached")

	// ErrInvalidTripID is returned when the trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidDriverID is returned when the driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidTripType is returned when the trip type is not a known value.
	ErrInvalidTripType = errors.New("invalid trip type")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidAmount is returned when a money amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTransactionType is returned when a ledger entry type is not a
	// known value.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidDiscountValue is returned when a discount code's value or
	// bounds violate domain constraints.
	ErrInvalidDiscountValue = errors.New("invalid discount value")
)
