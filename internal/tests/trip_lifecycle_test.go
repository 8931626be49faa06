package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"ridebooking/internal/domain"
	"ridebooking/internal/service"
)

func newTripService(store *MockStore) *service.TripService {
	wallet := service.NewWalletService(store)
	settlement := service.NewSettlementService(store, wallet)
	assignment := service.NewAssignmentService(store)
	return service.NewTripService(store, assignment, settlement)
}

func seedPassenger(store *MockStore, id string, balance float64) {
	store.AddUser(&domain.User{
		ID:            id,
		Name:          "Passenger " + id,
		Phone:         "+100" + id,
		Role:          domain.UserRolePassenger,
		WalletBalance: balance,
		CreatedAt:     time.Now(),
	})
}

func seedApprovedDriver(store *MockStore, id string) {
	store.AddUser(&domain.User{
		ID:        id,
		Name:      "Driver " + id,
		Phone:     "+200" + id,
		Role:      domain.UserRoleDriver,
		CreatedAt: time.Now(),
	})
	store.AddDriver(&domain.Driver{
		UserID:         id,
		LicenseNumber:  "LIC-" + id,
		VehiclePlate:   "PLATE-" + id,
		ApprovalStatus: domain.DriverApprovalApproved,
		CreatedAt:      time.Now(),
	})
}

func TestTrip_CreateStartsPending(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 0)
	svc := newTripService(store)

	trip, err := svc.Create(context.Background(), service.CreateRequest{
		PassengerID: "p1",
		Type:        domain.TripTypeUrban,
		Start:       domain.Point{Lat: 35.7, Lng: 51.4},
		End:         domain.Point{Lat: 35.8, Lng: 51.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Status != domain.TripStatusPending {
		t.Errorf("expected status %s, got %s", domain.TripStatusPending, trip.Status)
	}
	if trip.DriverID != "" {
		t.Errorf("expected no driver, got %s", trip.DriverID)
	}
	if trip.ID == "" {
		t.Error("expected generated trip id")
	}
}

func TestTrip_CreateRejectsUnknownPassenger(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := newTripService(store)

	_, err := svc.Create(context.Background(), service.CreateRequest{
		PassengerID: "ghost",
		Type:        domain.TripTypeUrban,
		Start:       domain.Point{Lat: 35.7, Lng: 51.4},
		End:         domain.Point{Lat: 35.8, Lng: 51.5},
	})
	if !errors.Is(err, service.ErrPassengerNotFound) {
		t.Fatalf("expected ErrPassengerNotFound, got %v", err)
	}
}

func TestTrip_CreateRejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 0)
	svc := newTripService(store)

	_, err := svc.Create(context.Background(), service.CreateRequest{
		PassengerID: "p1",
		Type:        domain.TripTypeUrban,
		Start:       domain.Point{Lat: 95.0, Lng: 51.4},
		End:         domain.Point{Lat: 35.8, Lng: 51.5},
	})
	if !errors.Is(err, service.ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestTrip_FullLifecycleWithSettlement(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 600)
	seedApprovedDriver(store, "d1")
	svc := newTripService(store)
	ctx := context.Background()

	trip, err := svc.Create(ctx, service.CreateRequest{
		PassengerID: "p1",
		Type:        domain.TripTypeUrban,
		Start:       domain.Point{Lat: 35.7, Lng: 51.4},
		End:         domain.Point{Lat: 35.8, Lng: 51.5},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	accepted, err := svc.Accept(ctx, trip.ID, "d1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != domain.TripStatusAccepted || accepted.DriverID != "d1" {
		t.Fatalf("expected accepted trip for d1, got %s/%s", accepted.Status, accepted.DriverID)
	}

	started, err := svc.Start(ctx, trip.ID, "d1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != domain.TripStatusInProgress {
		t.Fatalf("expected in_progress, got %s", started.Status)
	}
	if started.StartTime.IsZero() {
		t.Error("expected start time to be stamped")
	}

	completed, settlement, err := svc.Complete(ctx, trip.ID, "d1", 500)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.TripStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
	if completed.EndTime.IsZero() {
		t.Error("expected end time to be stamped")
	}
	if completed.PaymentID == "" {
		t.Error("expected payment reference on completed trip")
	}

	// Passenger pays 500, driver receives 425, platform keeps 75.
	if settlement.PassengerPaid != 500 {
		t.Errorf("expected passenger paid 500, got %v", settlement.PassengerPaid)
	}
	if settlement.DriverPayout != 425 {
		t.Errorf("expected driver payout 425, got %v", settlement.DriverPayout)
	}
	if settlement.PlatformFee != 75 {
		t.Errorf("expected platform fee 75, got %v", settlement.PlatformFee)
	}

	if got := store.GetUser("p1").WalletBalance; got != 100 {
		t.Errorf("expected passenger balance 100, got %v", got)
	}
	if got := store.GetUser("d1").WalletBalance; got != 425 {
		t.Errorf("expected driver balance 425, got %v", got)
	}

	// Exactly two ledger rows: the debit and the credit.
	if n := store.CountTransactions(); n != 2 {
		t.Errorf("expected 2 transactions, got %d", n)
	}

	payment := store.GetPayment(completed.PaymentID)
	if payment == nil {
		t.Fatal("payment not found")
	}
	if payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected completed payment, got %s", payment.Status)
	}
}

func TestTrip_StartRequiresAssignedDriver(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 0)
	seedApprovedDriver(store, "d1")
	seedApprovedDriver(store, "d2")
	svc := newTripService(store)
	ctx := context.Background()

	trip, err := svc.Create(ctx, service.CreateRequest{
		PassengerID: "p1",
		Type:        domain.TripTypeUrban,
		Start:       domain.Point{Lat: 35.7, Lng: 51.4},
		End:         domain.Point{Lat: 35.8, Lng: 51.5},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Accept(ctx, trip.ID, "d1"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err = svc.Start(ctx, trip.ID, "d2")
	if !errors.Is(err, service.ErrNotAssignedDriver) {
		t.Fatalf("expected ErrNotAssignedDriver, got %v", err)
	}
}

func TestTrip_CannotStartFromPending(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 0)
	seedApprovedDriver(store, "d1")
	svc := newTripService(store)
	ctx := context.Background()

	trip, err := svc.Create(ctx, service.CreateRequest{
		PassengerID: "p1",
		Type:        domain.TripTypeUrban,
		Start:       domain.Point{Lat: 35.7, Lng: 51.4},
		End:         domain.Point{Lat: 35.8, Lng: 51.5},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// No driver accepted yet, so the trip has no assigned driver at all.
	_, err = svc.Start(ctx, trip.ID, "d1")
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTrip_CompleteTwiceFails(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 1000)
	seedApprovedDriver(store, "d1")
	svc := newTripService(store)
	ctx := context.Background()

	trip := mustRunLifecycle(t, svc, store, "p1", "d1")

	_, _, err := svc.Complete(ctx, trip.ID, "d1", 500)
	if !errors.Is(err, service.ErrTripAlreadyCompleted) {
		t.Fatalf("expected ErrTripAlreadyCompleted, got %v", err)
	}

	// No extra money moved.
	if n := store.CountTransactions(); n != 2 {
		t.Errorf("expected 2 transactions after double completion, got %d", n)
	}
}

func TestTrip_CancelAcceptedMovesNoMoney(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 300)
	seedApprovedDriver(store, "d1")
	svc := newTripService(store)
	ctx := context.Background()

	trip, err := svc.Create(ctx, service.CreateRequest{
		PassengerID: "p1",
		Type:        domain.TripTypeUrban,
		Start:       domain.Point{Lat: 35.7, Lng: 51.4},
		End:         domain.Point{Lat: 35.8, Lng: 51.5},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Accept(ctx, trip.ID, "d1"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, trip.ID, "d1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.TripStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	if n := store.CountTransactions(); n != 0 {
		t.Errorf("expected no transactions after cancel, got %d", n)
	}
	if got := store.GetUser("p1").WalletBalance; got != 300 {
		t.Errorf("expected untouched balance 300, got %v", got)
	}
}

func TestTrip_CancelCompletedFails(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 1000)
	seedApprovedDriver(store, "d1")
	svc := newTripService(store)

	trip := mustRunLifecycle(t, svc, store, "p1", "d1")

	_, err := svc.Cancel(context.Background(), trip.ID, "d1")
	if !errors.Is(err, service.ErrTripAlreadyCompleted) {
		t.Fatalf("expected ErrTripAlreadyCompleted, got %v", err)
	}
}

func TestTrip_DriverFreedAfterCompletion(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	seedPassenger(store, "p1", 1000)
	seedPassenger(store, "p2", 1000)
	seedApprovedDriver(store, "d1")
	svc := newTripService(store)
	ctx := context.Background()

	mustRunLifecycle(t, svc, store, "p1", "d1")

	// A completed trip no longer occupies the driver.
	second, err := svc.Create(ctx, service.CreateRequest{
		PassengerID: "p2",
		Type:        domain.TripTypeUrban,
		Start:       domain.Point{Lat: 35.7, Lng: 51.4},
		End:         domain.Point{Lat: 35.8, Lng: 51.5},
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if _, err := svc.Accept(ctx, second.ID, "d1"); err != nil {
		t.Fatalf("expected driver to be free after completion, got %v", err)
	}
}

// mustRunLifecycle drives a trip from creation through settled completion
// with a gross fare of 500.
func mustRunLifecycle(t *testing.T, svc *service.TripService, store *MockStore, passengerID, driverID string) *domain.Trip {
	t.Helper()
	ctx := context.Background()

	trip, err := svc.Create(ctx, service.CreateRequest{
		PassengerID: passengerID,
		Type:        domain.TripTypeUrban,
		Start:       domain.Point{Lat: 35.7, Lng: 51.4},
		End:         domain.Point{Lat: 35.8, Lng: 51.5},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Accept(ctx, trip.ID, driverID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Start(ctx, trip.ID, driverID); err != nil {
		t.Fatalf("start: %v", err)
	}
	completed, _, err := svc.Complete(ctx, trip.ID, driverID, 500)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	return completed
}
