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

// platformFeeRate is the cut retained by the platform on every settled trip.
const platformFeeRate = 0.15

// SettlementService moves the money for a completed trip: the passenger is
// debited the gross fare, the driver is credited the fare net of the platform
// fee, and the payment record ties the two ledger entries together.
type SettlementService struct {
	store  repository.Store
	wallet *WalletService
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store repository.Store, wallet *WalletService) *SettlementService {
	return &SettlementService{store: store, wallet: wallet}
}

// Settlement is the outcome of settling a trip.
type Settlement struct {
	Payment       *domain.Payment
	PassengerTxn  *domain.Transaction
	DriverTxn     *domain.Transaction
	PlatformFee   float64
	DriverPayout  float64
	PassengerPaid float64
}

// Settle runs the full settlement for a trip as one atomic unit. It is the
// standalone entry point; trip completion composes settleIn into its own unit
// instead, so the status change and the money move commit together.
func (s *SettlementService) Settle(ctx context.Context, tripID string, gross float64) (*Settlement, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	var result *Settlement

	err := s.store.Atomic(ctx, func(store repository.Store) error {
		trip, err := store.Trips().GetByID(ctx, tripID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTripNotFound
			}
			return err
		}

		result, err = s.settleIn(ctx, store, trip, gross)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// settleIn performs the settlement steps against the given (transaction
// scoped) store. Any failed step aborts the whole unit: no partial money
// movement ever becomes visible.
func (s *SettlementService) settleIn(ctx context.Context, store repository.Store, trip *domain.Trip, gross float64) (*Settlement, error) {
	if gross <= 0 {
		return nil, ErrInvalidAmount
	}
	if trip.PaymentID != "" {
		return nil, ErrTripAlreadyCompleted
	}

	payment := &domain.Payment{
		ID:          uuid.New().String(),
		Amount:      gross,
		Type:        domain.PaymentTypeElectronic,
		Status:      domain.PaymentStatusPending,
		PaymentDate: time.Now(),
	}

	if err := store.Payments().Create(ctx, payment); err != nil {
		return nil, err
	}

	passengerPost, err := s.wallet.post(ctx, store, PostRequest{
		UserID:    trip.PassengerID,
		Amount:    -gross,
		Type:      domain.TransactionTypeTripPayment,
		PaymentID: payment.ID,
	})
	if err != nil {
		return nil, err
	}

	fee := roundMoney(gross * platformFeeRate)
	payout := roundMoney(gross - fee)

	result := &Settlement{
		Payment:       payment,
		PassengerTxn:  passengerPost.Transaction,
		PlatformFee:   fee,
		DriverPayout:  payout,
		PassengerPaid: gross,
	}

	if trip.DriverID != "" {
		// The driver's credit is trip income, not a top-up: both sides of the
		// settlement carry the trip_payment type.
		driverPost, err := s.wallet.post(ctx, store, PostRequest{
			UserID:    trip.DriverID,
			Amount:    payout,
			Type:      domain.TransactionTypeTripPayment,
			PaymentID: payment.ID,
		})
		if err != nil {
			return nil, err
		}
		result.DriverTxn = driverPost.Transaction
	}

	if err := store.Trips().AttachPayment(ctx, trip.ID, payment.ID); err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return nil, ErrTripAlreadyCompleted
		}
		return nil, err
	}

	if trip.DiscountCodeID != "" {
		if err := store.DiscountCodes().IncrementUsage(ctx, trip.DiscountCodeID); err != nil {
			if errors.Is(err, repository.ErrPreconditionFailed) {
				return nil, ErrDiscountLimitReached
			}
			return nil, err
		}
	}

	if err := store.Payments().UpdateStatus(ctx, payment.ID, domain.PaymentStatusCompleted); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusCompleted

	return result, nil
}

func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
