package postgres

import (
	"context"
	"database/sql"

	"ridebooking/internal/repository"
)

// Querier is the query surface shared by *sql.DB and *sql.Tx, letting every
// repository run unchanged inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Store is the PostgreSQL implementation of repository.Store.
// A Store built with NewStore runs each repository call on the pool; a Store
// handed to an Atomic callback runs everything on one transaction.
type Store struct {
	db *sql.DB
	q  Querier
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Users() repository.UserRepository                 { return &UserRepository{q: s.q} }
func (s *Store) Drivers() repository.DriverRepository             { return &DriverRepository{q: s.q} }
func (s *Store) Trips() repository.TripRepository                 { return &TripRepository{q: s.q} }
func (s *Store) Payments() repository.PaymentRepository           { return &PaymentRepository{q: s.q} }
func (s *Store) Transactions() repository.TransactionRepository   { return &TransactionRepository{q: s.q} }
func (s *Store) DiscountCodes() repository.DiscountCodeRepository { return &DiscountCodeRepository{q: s.q} }
func (s *Store) Tariffs() repository.TariffRepository             { return &TariffRepository{q: s.q} }

// Atomic runs fn inside one database transaction, rolling back on any error.
// A transaction-scoped Store joins the enclosing transaction instead of
// opening a nested one.
func (s *Store) Atomic(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&Store{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Ensure Store implements repository.Store.
var _ repository.Store = (*Store)(nil)
