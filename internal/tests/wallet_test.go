package tests

import (
	"context"
	"errors"
	"testing"

	"ridebooking/internal/domain"
	"ridebooking/internal/service"
)

func TestWallet_TopUpCreditsBalance(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 0)
	wallet := service.NewWalletService(store)
	ctx := context.Background()

	result, err := wallet.TopUp(ctx, "p1", 150, domain.PaymentTypeElectronic)
	if err != nil {
		t.Fatalf("topup: %v", err)
	}

	if result.NewBalance != 150 {
		t.Errorf("expected balance 150, got %v", result.NewBalance)
	}
	if result.Transaction.Type != domain.TransactionTypeDeposit {
		t.Errorf("expected deposit, got %s", result.Transaction.Type)
	}
	if result.Payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected completed payment, got %s", result.Payment.Status)
	}

	balance, err := wallet.BalanceOf(ctx, "p1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 150 {
		t.Errorf("expected persisted balance 150, got %v", balance)
	}
}

func TestWallet_WithdrawWithinBalance(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 100)
	wallet := service.NewWalletService(store)

	result, err := wallet.Withdraw(context.Background(), "p1", 40)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if result.NewBalance != 60 {
		t.Errorf("expected balance 60, got %v", result.NewBalance)
	}
	if result.Transaction.Amount != -40 {
		t.Errorf("expected ledger amount -40, got %v", result.Transaction.Amount)
	}
}

func TestWallet_WithdrawBeyondBalanceFails(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 100)
	wallet := service.NewWalletService(store)

	_, err := wallet.Withdraw(context.Background(), "p1", 100.01)
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// The failed debit leaves no ledger row behind.
	if n := store.CountTransactions(); n != 0 {
		t.Errorf("expected no transactions, got %d", n)
	}
	if got := store.GetUser("p1").WalletBalance; got != 100 {
		t.Errorf("expected untouched balance 100, got %v", got)
	}
}

func TestWallet_WithdrawExactBalanceSucceeds(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 100)
	wallet := service.NewWalletService(store)

	result, err := wallet.Withdraw(context.Background(), "p1", 100)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if result.NewBalance != 0 {
		t.Errorf("expected balance 0, got %v", result.NewBalance)
	}
}

func TestWallet_RejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 100)
	wallet := service.NewWalletService(store)
	ctx := context.Background()

	if _, err := wallet.TopUp(ctx, "p1", 0, domain.PaymentTypeElectronic); !errors.Is(err, service.ErrInvalidAmount) {
		t.Errorf("topup 0: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := wallet.TopUp(ctx, "p1", -5, domain.PaymentTypeElectronic); !errors.Is(err, service.ErrInvalidAmount) {
		t.Errorf("topup -5: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := wallet.Withdraw(ctx, "p1", -5); !errors.Is(err, service.ErrInvalidAmount) {
		t.Errorf("withdraw -5: expected ErrInvalidAmount, got %v", err)
	}
}

func TestWallet_UnknownUser(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	wallet := service.NewWalletService(store)
	ctx := context.Background()

	if _, err := wallet.BalanceOf(ctx, "ghost"); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("balance: expected ErrUserNotFound, got %v", err)
	}
	if _, err := wallet.TopUp(ctx, "ghost", 10, domain.PaymentTypeElectronic); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("topup: expected ErrUserNotFound, got %v", err)
	}
}

func TestWallet_LedgerMatchesBalance(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 0)
	wallet := service.NewWalletService(store)
	ctx := context.Background()

	amounts := []float64{100, 250, 75}
	for _, amount := range amounts {
		if _, err := wallet.TopUp(ctx, "p1", amount, domain.PaymentTypeElectronic); err != nil {
			t.Fatalf("topup %v: %v", amount, err)
		}
	}
	if _, err := wallet.Withdraw(ctx, "p1", 125); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	// The cached balance equals the sum of the ledger at every commit point.
	var sum float64
	for _, txn := range store.TransactionsOf("p1") {
		sum += txn.Amount
	}

	balance, err := wallet.BalanceOf(ctx, "p1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if sum != balance {
		t.Errorf("ledger sum %v does not match balance %v", sum, balance)
	}
	if balance != 300 {
		t.Errorf("expected balance 300, got %v", balance)
	}
}

func TestWallet_ListTransactionsNewestFirst(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 0)
	wallet := service.NewWalletService(store)
	ctx := context.Background()

	for _, amount := range []float64{10, 20, 30} {
		if _, err := wallet.TopUp(ctx, "p1", amount, domain.PaymentTypeElectronic); err != nil {
			t.Fatalf("topup: %v", err)
		}
	}

	txns, err := wallet.ListTransactions(ctx, "p1", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}
	if txns[0].Amount != 30 || txns[2].Amount != 10 {
		t.Errorf("expected newest first, got %v then %v", txns[0].Amount, txns[2].Amount)
	}
}

func TestWallet_FailedLedgerInsertAbortsTopUp(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 0)
	store.TransactionCreateError = errors.New("insert failed")
	wallet := service.NewWalletService(store)

	_, err := wallet.TopUp(context.Background(), "p1", 100, domain.PaymentTypeElectronic)
	if err == nil {
		t.Fatal("expected error")
	}

	// The payment row created before the failed insert rolled back too.
	if n := store.CountPayments(); n != 0 {
		t.Errorf("expected no payments, got %d", n)
	}
	if got := store.GetUser("p1").WalletBalance; got != 0 {
		t.Errorf("expected untouched balance 0, got %v", got)
	}
}
