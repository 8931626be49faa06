package repository

import "context"

// Store bundles all repositories behind one data-access handle. Services
// receive a Store instead of reaching for a shared connection, and run
// multi-step money movement through Atomic.
type Store interface {
	Users() UserRepository
	Drivers() DriverRepository
	Trips() TripRepository
	Payments() PaymentRepository
	Transactions() TransactionRepository
	DiscountCodes() DiscountCodeRepository
	Tariffs() TariffRepository

	// Atomic executes fn inside a single storage transaction. The Store
	// passed to fn is scoped to that transaction; every write made through
	// it commits entirely or not at all. Calling Atomic on an already
	// transaction-scoped Store joins the enclosing transaction.
	Atomic(ctx context.Context, fn func(Store) error) error
}
