package postgres

import (
	"context"
	"database/sql"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// TransactionRepository is a PostgreSQL implementation of
// repository.TransactionRepository. The transactions table is append-only.
type TransactionRepository struct {
	q Querier
}

// Create appends a ledger row.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, amount, type, payment_id, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		txn.ID,
		txn.UserID,
		txn.Amount,
		txn.Type,
		nullString(txn.PaymentID),
		txn.Date,
	)

	return err
}

// ListByUser retrieves a user's ledger rows, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, amount, type, payment_id, date
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.q.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		var paymentID sql.NullString
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.Amount, &txn.Type, &paymentID, &txn.Date); err != nil {
			return nil, err
		}
		txn.PaymentID = paymentID.String
		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}

// Ensure TransactionRepository implements repository.TransactionRepository.
var _ repository.TransactionRepository = (*TransactionRepository)(nil)
