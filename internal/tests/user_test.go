package tests

import (
	"context"
	"errors"
	"testing"

	"ridebooking/internal/domain"
	"ridebooking/internal/service"
)

func TestUser_RegisterAndFetch(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewUserService(store)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, service.RegisterUserRequest{
		Name:  "Sara",
		Phone: "+989121234567",
		Role:  domain.UserRolePassenger,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.WalletBalance != 0 {
		t.Errorf("expected zero starting balance, got %v", user.WalletBalance)
	}

	fetched, err := svc.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Phone != "+989121234567" {
		t.Errorf("expected phone to round-trip, got %s", fetched.Phone)
	}
}

func TestUser_DuplicatePhoneRejected(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewUserService(store)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, service.RegisterUserRequest{
		Name: "A", Phone: "+1", Role: domain.UserRolePassenger,
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.RegisterUser(ctx, service.RegisterUserRequest{
		Name: "B", Phone: "+1", Role: domain.UserRolePassenger,
	})
	if !errors.Is(err, service.ErrPhoneAlreadyRegistered) {
		t.Fatalf("expected ErrPhoneAlreadyRegistered, got %v", err)
	}
}

func TestUser_DriverProfileNeedsDriverRole(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewUserService(store)
	ctx := context.Background()

	passenger, err := svc.RegisterUser(ctx, service.RegisterUserRequest{
		Name: "P", Phone: "+1", Role: domain.UserRolePassenger,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.RegisterDriver(ctx, service.RegisterDriverRequest{
		UserID:        passenger.ID,
		LicenseNumber: "LIC-1",
		VehiclePlate:  "PLATE-1",
	})
	if !errors.Is(err, service.ErrInvalidUserDetails) {
		t.Fatalf("expected ErrInvalidUserDetails, got %v", err)
	}
}

func TestUser_DriverApprovalGatesAssignment(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	userSvc := service.NewUserService(store)
	assignSvc := service.NewAssignmentService(store)
	ctx := context.Background()

	driver, err := userSvc.RegisterUser(ctx, service.RegisterUserRequest{
		Name: "D", Phone: "+2", Role: domain.UserRoleDriver,
	})
	if err != nil {
		t.Fatalf("register user: %v", err)
	}

	profile, err := userSvc.RegisterDriver(ctx, service.RegisterDriverRequest{
		UserID:        driver.ID,
		LicenseNumber: "LIC-1",
		VehiclePlate:  "PLATE-1",
	})
	if err != nil {
		t.Fatalf("register driver: %v", err)
	}
	if profile.ApprovalStatus != domain.DriverApprovalPending {
		t.Fatalf("expected pending profile, got %s", profile.ApprovalStatus)
	}

	seedPassenger(store, "p1", 0)
	seedPendingTrip(store, "trip-1", "p1")

	// Pending profile cannot take trips.
	if _, err := assignSvc.Assign(ctx, "trip-1", driver.ID); !errors.Is(err, service.ErrDriverNotAvailable) {
		t.Fatalf("expected ErrDriverNotAvailable, got %v", err)
	}

	// Approval unlocks assignment.
	if _, err := userSvc.ApproveDriver(ctx, driver.ID, domain.DriverApprovalApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := assignSvc.Assign(ctx, "trip-1", driver.ID); err != nil {
		t.Fatalf("assign after approval: %v", err)
	}
}
