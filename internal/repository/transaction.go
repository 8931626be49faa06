package repository

import (
	"context"

	"ridebooking/internal/domain"
)

// TransactionRepository defines the persistence operations for the wallet
// ledger. Rows are append-only: there is no update or delete.
type TransactionRepository interface {
	// Create appends a ledger row.
	Create(ctx context.Context, txn *domain.Transaction) error

	// ListByUser retrieves a user's ledger rows, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error)
}
