package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// WalletService is the ledger over user wallets: an append-only transaction
// log backing a cached balance. The row insert and the balance update always
// commit together or not at all.
type WalletService struct {
	store repository.Store
}

// NewWalletService creates a new WalletService.
func NewWalletService(store repository.Store) *WalletService {
	return &WalletService{store: store}
}

// PostRequest contains the parameters for appending a ledger entry.
type PostRequest struct {
	UserID    string
	Amount    float64 // signed: negative debits, positive credits
	Type      domain.TransactionType
	PaymentID string
}

// PostResult is the outcome of a ledger post.
type PostResult struct {
	Transaction *domain.Transaction
	NewBalance  float64
}

// Post appends one ledger entry and updates the cached balance in a single
// atomic unit. Debit-semantics entries fail with ErrInsufficientFunds when the
// balance cannot cover them, leaving no row behind.
func (s *WalletService) Post(ctx context.Context, req PostRequest) (*PostResult, error) {
	var result *PostResult

	err := s.store.Atomic(ctx, func(store repository.Store) error {
		var err error
		result, err = s.post(ctx, store, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// post runs the ledger append on the given store. Callers composing several
// posts (settlement, top-up) pass their transaction-scoped store so the whole
// movement is one atomic unit.
func (s *WalletService) post(ctx context.Context, store repository.Store, req PostRequest) (*PostResult, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	switch req.Type {
	case domain.TransactionTypeDeposit, domain.TransactionTypeWithdraw,
		domain.TransactionTypeTripPayment, domain.TransactionTypeRefund,
		domain.TransactionTypeAdjustment:
	default:
		return nil, ErrInvalidTransactionType
	}

	if _, err := store.Users().GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	txn := &domain.Transaction{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Amount:    req.Amount,
		Type:      req.Type,
		PaymentID: req.PaymentID,
		Date:      time.Now(),
	}

	if err := store.Transactions().Create(ctx, txn); err != nil {
		return nil, err
	}

	// Debits are guarded inside the balance update itself; a failed guard
	// rolls the row insert back with the rest of the unit.
	enforce := req.Type.DebitType() && req.Amount < 0

	balance, err := store.Users().AdjustWalletBalance(ctx, req.UserID, req.Amount, enforce)
	if err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	return &PostResult{Transaction: txn, NewBalance: balance}, nil
}

// BalanceOf returns the user's cached wallet balance.
func (s *WalletService) BalanceOf(ctx context.Context, userID string) (float64, error) {
	if userID == "" {
		return 0, ErrInvalidUserID
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	return user.WalletBalance, nil
}

// TopUpResult is the outcome of a wallet top-up.
type TopUpResult struct {
	Transaction *domain.Transaction
	Payment     *domain.Payment
	NewBalance  float64
}

// TopUp credits a user's wallet: payment row, deposit entry and payment
// completion in one atomic unit.
func (s *WalletService) TopUp(ctx context.Context, userID string, amount float64, paymentType domain.PaymentType) (*TopUpResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var result *TopUpResult

	err := s.store.Atomic(ctx, func(store repository.Store) error {
		payment := &domain.Payment{
			ID:          uuid.New().String(),
			Amount:      amount,
			Type:        paymentType,
			Status:      domain.PaymentStatusPending,
			PaymentDate: time.Now(),
		}

		if err := store.Payments().Create(ctx, payment); err != nil {
			return err
		}

		posted, err := s.post(ctx, store, PostRequest{
			UserID:    userID,
			Amount:    amount,
			Type:      domain.TransactionTypeDeposit,
			PaymentID: payment.ID,
		})
		if err != nil {
			return err
		}

		if err := store.Payments().UpdateStatus(ctx, payment.ID, domain.PaymentStatusCompleted); err != nil {
			return err
		}
		payment.Status = domain.PaymentStatusCompleted

		result = &TopUpResult{
			Transaction: posted.Transaction,
			Payment:     payment,
			NewBalance:  posted.NewBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Withdraw debits a user's wallet, failing with ErrInsufficientFunds when the
// balance cannot cover the amount.
func (s *WalletService) Withdraw(ctx context.Context, userID string, amount float64) (*PostResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return s.Post(ctx, PostRequest{
		UserID: userID,
		Amount: -math.Abs(amount),
		Type:   domain.TransactionTypeWithdraw,
	})
}

// ListTransactions returns a page of the user's ledger, newest first.
func (s *WalletService) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	limit, offset = clampPage(limit, offset)
	return s.store.Transactions().ListByUser(ctx, userID, limit, offset)
}
