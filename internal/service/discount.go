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

// DiscountRejection explains why a discount code cannot be applied. Rejections
// are values, not errors: an invalid code is an expected answer, and the
// checks run in a fixed order so the first failure is the reported one.
type DiscountRejection string

const (
	RejectionNotFound      DiscountRejection = "code not found"
	RejectionInactive      DiscountRejection = "code is inactive"
	RejectionNotYetValid   DiscountRejection = "code is not yet valid"
	RejectionExpired       DiscountRejection = "code has expired"
	RejectionMinTripAmount DiscountRejection = "trip amount below minimum"
	RejectionUsageLimit    DiscountRejection = "usage limit reached"
	RejectionAlreadyUsed   DiscountRejection = "code already used by this user"
)

// Validation is the outcome of checking a discount code against a trip amount.
// When Valid is false, Rejection names the first failed check.
type Validation struct {
	Valid          bool
	Rejection      DiscountRejection
	Code           *domain.DiscountCode
	DiscountAmount float64
	FinalAmount    float64
}

// DiscountService validates and administers promotional codes.
type DiscountService struct {
	store repository.Store
}

// NewDiscountService creates a new DiscountService.
func NewDiscountService(store repository.Store) *DiscountService {
	return &DiscountService{store: store}
}

// Validate checks whether userID may apply the code to a trip of the given
// amount and computes the discounted total. The checks run in order: existence,
// active flag, validity window, minimum amount, usage limit, prior use by this
// user. Validation does not reserve the code; the settlement's guarded
// increment is what finally enforces the limit.
func (s *DiscountService) Validate(ctx context.Context, code, userID string, amount float64) (*Validation, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	dc, err := s.store.DiscountCodes().GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &Validation{Rejection: RejectionNotFound}, nil
		}
		return nil, err
	}

	rejection, err := s.checkCode(ctx, dc, userID, amount)
	if err != nil {
		return nil, err
	}
	if rejection != "" {
		return &Validation{Rejection: rejection, Code: dc}, nil
	}

	discount := discountAmount(dc, amount)
	final := amount - discount
	if final < 0 {
		final = 0
	}

	return &Validation{
		Valid:          true,
		Code:           dc,
		DiscountAmount: discount,
		FinalAmount:    final,
	}, nil
}

func (s *DiscountService) checkCode(ctx context.Context, dc *domain.DiscountCode, userID string, amount float64) (DiscountRejection, error) {
	now := time.Now()

	if !dc.IsActive {
		return RejectionInactive, nil
	}
	if dc.ValidFrom != nil && now.Before(*dc.ValidFrom) {
		return RejectionNotYetValid, nil
	}
	if dc.ValidUntil != nil && now.After(*dc.ValidUntil) {
		return RejectionExpired, nil
	}
	if dc.MinTripAmount != nil && amount < *dc.MinTripAmount {
		return RejectionMinTripAmount, nil
	}
	if dc.UsageLimit != nil && dc.UsageCount >= *dc.UsageLimit {
		return RejectionUsageLimit, nil
	}

	used, err := s.store.Trips().CountByDiscountAndPassenger(ctx, dc.ID, userID)
	if err != nil {
		return "", err
	}
	if used > 0 {
		return RejectionAlreadyUsed, nil
	}

	return "", nil
}

// discountAmount computes the reduction for the given trip amount, honoring
// the optional cap.
func discountAmount(dc *domain.DiscountCode, amount float64) float64 {
	var discount float64
	switch dc.Type {
	case domain.DiscountTypePercentage:
		discount = amount * dc.Value / 100
	case domain.DiscountTypeFixed:
		discount = dc.Value
	}

	if dc.MaxDiscountAmount != nil && discount > *dc.MaxDiscountAmount {
		discount = *dc.MaxDiscountAmount
	}
	if discount > amount {
		discount = amount
	}

	return roundMoney(discount)
}

// CreateCodeRequest contains the parameters for registering a discount code.
type CreateCodeRequest struct {
	Code              string
	Type              domain.DiscountType
	Value             float64
	MinTripAmount     *float64
	MaxDiscountAmount *float64
	UsageLimit        *int
	ValidFrom         *time.Time
	ValidUntil        *time.Time
}

// CreateCode registers a new active discount code.
func (s *DiscountService) CreateCode(ctx context.Context, req CreateCodeRequest) (*domain.DiscountCode, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, ErrInvalidDiscountValue
	}

	switch req.Type {
	case domain.DiscountTypePercentage:
		if req.Value <= 0 || req.Value > 100 {
			return nil, ErrInvalidDiscountValue
		}
	case domain.DiscountTypeFixed:
		if req.Value <= 0 {
			return nil, ErrInvalidDiscountValue
		}
	default:
		return nil, ErrInvalidDiscountValue
	}

	if req.UsageLimit != nil && *req.UsageLimit <= 0 {
		return nil, ErrInvalidDiscountValue
	}
	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return nil, ErrInvalidDiscountValue
	}

	dc := &domain.DiscountCode{
		ID:                uuid.New().String(),
		Code:              code,
		Type:              req.Type,
		Value:             req.Value,
		MinTripAmount:     req.MinTripAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		UsageLimit:        req.UsageLimit,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		IsActive:          true,
		CreatedAt:         time.Now(),
	}

	if err := s.store.DiscountCodes().Create(ctx, dc); err != nil {
		return nil, err
	}

	return dc, nil
}

// Delete soft-deletes a discount code. Trips that already used it keep their
// reference.
func (s *DiscountService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidDiscountValue
	}

	return s.store.DiscountCodes().SoftDelete(ctx, id)
}
