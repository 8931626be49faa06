package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// ErrPhoneAlreadyRegistered is returned when registering a user with a phone
// number already in use.
var ErrPhoneAlreadyRegistered = errors.New("phone number already registered")

// ErrInvalidUserDetails is returned when registration fields are missing or
// malformed.
var ErrInvalidUserDetails = errors.New("invalid user details")

// UserService registers accounts and driver profiles. Identity verification
// happens upstream; this only persists the resolved account data.
type UserService struct {
	store repository.Store
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// RegisterUserRequest contains the parameters for creating an account.
type RegisterUserRequest struct {
	Name  string
	Phone string
	Role  domain.UserRole
}

// RegisterUser creates an account with a zero wallet balance.
func (s *UserService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		return nil, ErrInvalidUserDetails
	}

	switch req.Role {
	case domain.UserRolePassenger, domain.UserRoleDriver, domain.UserRoleAdmin:
	default:
		return nil, ErrInvalidUserDetails
	}

	if _, err := s.store.Users().GetByPhone(ctx, phone); err == nil {
		return nil, ErrPhoneAlreadyRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		Role:      req.Role,
		CreatedAt: time.Now(),
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves an account by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, ErrInvalidUserID
	}

	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// RegisterDriverRequest contains the parameters for creating a driver profile.
type RegisterDriverRequest struct {
	UserID        string
	LicenseNumber string
	VehiclePlate  string
	VehicleModel  string
}

// RegisterDriver attaches a driver profile to an existing account. The profile
// starts pending and cannot take trips until approved.
func (s *UserService) RegisterDriver(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if strings.TrimSpace(req.LicenseNumber) == "" || strings.TrimSpace(req.VehiclePlate) == "" {
		return nil, ErrInvalidUserDetails
	}

	user, err := s.store.Users().GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role != domain.UserRoleDriver {
		return nil, ErrInvalidUserDetails
	}

	driver := &domain.Driver{
		UserID:         req.UserID,
		LicenseNumber:  strings.TrimSpace(req.LicenseNumber),
		VehiclePlate:   strings.TrimSpace(req.VehiclePlate),
		VehicleModel:   strings.TrimSpace(req.VehicleModel),
		ApprovalStatus: domain.DriverApprovalPending,
		CreatedAt:      time.Now(),
	}

	if err := s.store.Drivers().Create(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}

// ApproveDriver sets the driver's approval status.
func (s *UserService) ApproveDriver(ctx context.Context, userID string, status domain.DriverApprovalStatus) (*domain.Driver, error) {
	if userID == "" {
		return nil, ErrInvalidDriverID
	}

	switch status {
	case domain.DriverApprovalApproved, domain.DriverApprovalRejected, domain.DriverApprovalPending:
	default:
		return nil, ErrInvalidUserDetails
	}

	if err := s.store.Drivers().UpdateApproval(ctx, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotAvailable
		}
		return nil, err
	}

	return s.store.Drivers().GetByUserID(ctx, userID)
}
