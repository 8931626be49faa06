package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ridebooking/internal/domain"
	"ridebooking/internal/service"
)

func seedInProgressTrip(store *MockStore, id, passengerID, driverID string) *domain.Trip {
	trip := &domain.Trip{
		ID:          id,
		PassengerID: passengerID,
		DriverID:    driverID,
		Type:        domain.TripTypeUrban,
		Status:      domain.TripStatusInProgress,
		StartTime:   time.Now(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	store.AddTrip(trip)
	return trip
}

func TestSettlement_SplitsGrossBetweenDriverAndPlatform(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 1000)
	seedApprovedDriver(store, "d1")
	seedInProgressTrip(store, "trip-1", "p1", "d1")

	wallet := service.NewWalletService(store)
	svc := service.NewSettlementService(store, wallet)

	settlement, err := svc.Settle(context.Background(), "trip-1", 200)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if settlement.PassengerTxn.Amount != -200 {
		t.Errorf("expected passenger debit -200, got %v", settlement.PassengerTxn.Amount)
	}
	if settlement.DriverTxn.Amount != 170 {
		t.Errorf("expected driver credit 170, got %v", settlement.DriverTxn.Amount)
	}

	// Both ledger rows are trip income, not deposits: by-type accounting must
	// distinguish trip earnings from wallet top-ups.
	if settlement.PassengerTxn.Type != domain.TransactionTypeTripPayment {
		t.Errorf("expected passenger txn type trip_payment, got %s", settlement.PassengerTxn.Type)
	}
	if settlement.DriverTxn.Type != domain.TransactionTypeTripPayment {
		t.Errorf("expected driver txn type trip_payment, got %s", settlement.DriverTxn.Type)
	}
	if settlement.PlatformFee != 30 {
		t.Errorf("expected platform fee 30, got %v", settlement.PlatformFee)
	}

	// The platform fee never appears as a ledger row.
	if n := store.CountTransactions(); n != 2 {
		t.Errorf("expected 2 transactions, got %d", n)
	}

	if got := store.GetUser("p1").WalletBalance; got != 800 {
		t.Errorf("expected passenger balance 800, got %v", got)
	}
	if got := store.GetUser("d1").WalletBalance; got != 170 {
		t.Errorf("expected driver balance 170, got %v", got)
	}
}

func TestSettlement_InsufficientFundsRollsBackEverything(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 50)
	seedApprovedDriver(store, "d1")
	seedInProgressTrip(store, "trip-1", "p1", "d1")

	wallet := service.NewWalletService(store)
	svc := service.NewSettlementService(store, wallet)

	_, err := svc.Settle(context.Background(), "trip-1", 200)
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Nothing moved and nothing was recorded.
	if n := store.CountTransactions(); n != 0 {
		t.Errorf("expected no transactions, got %d", n)
	}
	if n := store.CountPayments(); n != 0 {
		t.Errorf("expected no payments, got %d", n)
	}
	if got := store.GetUser("p1").WalletBalance; got != 50 {
		t.Errorf("expected untouched balance 50, got %v", got)
	}
	if trip := store.GetTrip("trip-1"); trip.PaymentID != "" {
		t.Errorf("expected no payment reference, got %s", trip.PaymentID)
	}
}

func TestSettlement_CompletionRollsBackStatusOnFailure(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 50)
	seedApprovedDriver(store, "d1")
	seedInProgressTrip(store, "trip-1", "p1", "d1")

	svc := newTripService(store)

	_, _, err := svc.Complete(context.Background(), "trip-1", "d1", 200)
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// The status change and the money move share one atomic unit, so the
	// failed debit also reverts the completion.
	trip := store.GetTrip("trip-1")
	if trip.Status != domain.TripStatusInProgress {
		t.Errorf("expected trip back in_progress, got %s", trip.Status)
	}
	if !trip.EndTime.IsZero() {
		t.Error("expected no end time after rollback")
	}
}

func TestSettlement_DiscountUsageIncrementedAtomically(t *testing.T) {
	t.Parallel()

	limit := 5
	store := NewMockStore()
	seedPassenger(store, "p1", 1000)
	seedApprovedDriver(store, "d1")
	store.AddDiscount(&domain.DiscountCode{
		ID:         "dc-1",
		Code:       "WELCOME",
		Type:       domain.DiscountTypePercentage,
		Value:      10,
		UsageLimit: &limit,
		IsActive:   true,
	})

	trip := seedInProgressTrip(store, "trip-1", "p1", "d1")
	trip.DiscountCodeID = "dc-1"
	store.AddTrip(trip)

	wallet := service.NewWalletService(store)
	svc := service.NewSettlementService(store, wallet)

	if _, err := svc.Settle(context.Background(), "trip-1", 200); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if got := store.GetDiscount("dc-1").UsageCount; got != 1 {
		t.Errorf("expected usage count 1, got %d", got)
	}
}

func TestSettlement_ExhaustedDiscountRollsBackSettlement(t *testing.T) {
	t.Parallel()

	limit := 1
	store := NewMockStore()
	seedPassenger(store, "p1", 1000)
	seedApprovedDriver(store, "d1")
	store.AddDiscount(&domain.DiscountCode{
		ID:         "dc-1",
		Code:       "ONCE",
		Type:       domain.DiscountTypeFixed,
		Value:      20,
		UsageLimit: &limit,
		UsageCount: 1, // already exhausted
		IsActive:   true,
	})

	trip := seedInProgressTrip(store, "trip-1", "p1", "d1")
	trip.DiscountCodeID = "dc-1"
	store.AddTrip(trip)

	wallet := service.NewWalletService(store)
	svc := service.NewSettlementService(store, wallet)

	_, err := svc.Settle(context.Background(), "trip-1", 200)
	if !errors.Is(err, service.ErrDiscountLimitReached) {
		t.Fatalf("expected ErrDiscountLimitReached, got %v", err)
	}

	// The whole settlement rolled back with the failed increment.
	if n := store.CountTransactions(); n != 0 {
		t.Errorf("expected no transactions, got %d", n)
	}
	if got := store.GetUser("p1").WalletBalance; got != 1000 {
		t.Errorf("expected untouched balance 1000, got %v", got)
	}
	if got := store.GetDiscount("dc-1").UsageCount; got != 1 {
		t.Errorf("expected usage count to stay 1, got %d", got)
	}
}

func TestSettlement_RejectsNonPositiveGross(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 1000)
	seedApprovedDriver(store, "d1")
	seedInProgressTrip(store, "trip-1", "p1", "d1")

	wallet := service.NewWalletService(store)
	svc := service.NewSettlementService(store, wallet)

	for _, gross := range []float64{0, -10} {
		_, err := svc.Settle(context.Background(), "trip-1", gross)
		if !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("gross %v: expected ErrInvalidAmount, got %v", gross, err)
		}
	}
}

func TestSettlement_PayoutRounding(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 1000)
	seedApprovedDriver(store, "d1")
	seedInProgressTrip(store, "trip-1", "p1", "d1")

	wallet := service.NewWalletService(store)
	svc := service.NewSettlementService(store, wallet)

	settlement, err := svc.Settle(context.Background(), "trip-1", 99.99)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if settlement.PlatformFee != 15.0 {
		t.Errorf("expected fee 15.00, got %v", settlement.PlatformFee)
	}
	if settlement.DriverPayout != 84.99 {
		t.Errorf("expected payout 84.99, got %v", settlement.DriverPayout)
	}
}

func TestSettlement_ConcurrentDiscountUseNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	const limit = 3
	const contenders = limit + 1

	store := NewMockStore()
	seedApprovedDriver(store, "d1")

	usageLimit := limit
	store.AddDiscount(&domain.DiscountCode{
		ID:         "dc-1",
		Code:       "LIMITED",
		Type:       domain.DiscountTypeFixed,
		Value:      10,
		UsageLimit: &usageLimit,
		IsActive:   true,
	})

	for i := 0; i < contenders; i++ {
		passengerID := fmt.Sprintf("p%d", i)
		seedPassenger(store, passengerID, 1000)
		trip := seedInProgressTrip(store, fmt.Sprintf("trip-%d", i), passengerID, "d1")
		trip.DiscountCodeID = "dc-1"
		store.AddTrip(trip)
	}

	wallet := service.NewWalletService(store)
	svc := service.NewSettlementService(store, wallet)

	var wg sync.WaitGroup
	errs := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(tripID string) {
			defer wg.Done()
			_, err := svc.Settle(context.Background(), tripID, 200)
			errs <- err
		}(fmt.Sprintf("trip-%d", i))
	}

	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		if !errors.Is(err, service.ErrDiscountLimitReached) {
			t.Errorf("unexpected error: %v", err)
		}
	}

	// The guarded increment caps commits at the limit; the loser's whole
	// settlement rolls back.
	if successes != limit {
		t.Fatalf("expected exactly %d settlements to commit, got %d", limit, successes)
	}
	if got := store.GetDiscount("dc-1").UsageCount; got != limit {
		t.Errorf("expected usage count %d, got %d", limit, got)
	}
	if n := store.CountTransactions(); n != 2*limit {
		t.Errorf("expected %d transactions, got %d", 2*limit, n)
	}
}
