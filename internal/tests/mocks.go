package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ridebooking/internal/domain"
	"ridebooking/internal/repository"
)

// MockStore is an in-memory implementation of repository.Store.
// Every operation takes the store lock for its whole duration, so conditional
// updates are atomic the same way a single SQL statement is. Atomic snapshots
// the state and restores it when fn fails, mirroring a rolled-back
// transaction.
type MockStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users            map[string]*domain.User
	drivers          map[string]*domain.Driver
	trips            map[string]*domain.Trip
	payments         map[string]*domain.Payment
	transactions     []*domain.Transaction
	discounts        map[string]*domain.DiscountCode
	deletedDiscounts map[string]bool
	tariffs          []*domain.Tariff

	// Counters for verification
	AssignDriverCallCount      int32
	TransactionCreateCallCount int32

	// Error injection
	TripCreateError        error
	TripCountError         error
	PaymentCreateError     error
	TransactionCreateError error
	PaymentUpdateError     error
}

// NewMockStore creates a new empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		users:            make(map[string]*domain.User),
		drivers:          make(map[string]*domain.Driver),
		trips:            make(map[string]*domain.Trip),
		payments:         make(map[string]*domain.Payment),
		discounts:        make(map[string]*domain.DiscountCode),
		deletedDiscounts: make(map[string]bool),
	}
}

func (m *MockStore) Users() repository.UserRepository                 { return &mockUserRepo{m} }
func (m *MockStore) Drivers() repository.DriverRepository             { return &mockDriverRepo{m} }
func (m *MockStore) Trips() repository.TripRepository                 { return &mockTripRepo{m} }
func (m *MockStore) Payments() repository.PaymentRepository           { return &mockPaymentRepo{m} }
func (m *MockStore) Transactions() repository.TransactionRepository   { return &mockTransactionRepo{m} }
func (m *MockStore) DiscountCodes() repository.DiscountCodeRepository { return &mockDiscountRepo{m} }
func (m *MockStore) Tariffs() repository.TariffRepository             { return &mockTariffRepo{m} }

// Atomic serializes transactions, snapshots the state, and restores the
// snapshot when fn returns an error.
func (m *MockStore) Atomic(ctx context.Context, fn func(repository.Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snapshot := m.snapshot()

	if err := fn(m); err != nil {
		m.restore(snapshot)
		return err
	}

	return nil
}

type storeSnapshot struct {
	users            map[string]*domain.User
	drivers          map[string]*domain.Driver
	trips            map[string]*domain.Trip
	payments         map[string]*domain.Payment
	transactions     []*domain.Transaction
	discounts        map[string]*domain.DiscountCode
	deletedDiscounts map[string]bool
	tariffs          []*domain.Tariff
}

func (m *MockStore) snapshot() *storeSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &storeSnapshot{
		users:            make(map[string]*domain.User, len(m.users)),
		drivers:          make(map[string]*domain.Driver, len(m.drivers)),
		trips:            make(map[string]*domain.Trip, len(m.trips)),
		payments:         make(map[string]*domain.Payment, len(m.payments)),
		transactions:     make([]*domain.Transaction, len(m.transactions)),
		discounts:        make(map[string]*domain.DiscountCode, len(m.discounts)),
		deletedDiscounts: make(map[string]bool, len(m.deletedDiscounts)),
		tariffs:          make([]*domain.Tariff, len(m.tariffs)),
	}

	for id, u := range m.users {
		cp := *u
		snap.users[id] = &cp
	}
	for id, d := range m.drivers {
		cp := *d
		snap.drivers[id] = &cp
	}
	for id, t := range m.trips {
		cp := *t
		snap.trips[id] = &cp
	}
	for id, p := range m.payments {
		cp := *p
		snap.payments[id] = &cp
	}
	copy(snap.transactions, m.transactions)
	for id, d := range m.discounts {
		cp := *d
		snap.discounts[id] = &cp
	}
	for id, deleted := range m.deletedDiscounts {
		snap.deletedDiscounts[id] = deleted
	}
	copy(snap.tariffs, m.tariffs)

	return snap
}

func (m *MockStore) restore(snap *storeSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = snap.users
	m.drivers = snap.drivers
	m.trips = snap.trips
	m.payments = snap.payments
	m.transactions = snap.transactions
	m.discounts = snap.discounts
	m.deletedDiscounts = snap.deletedDiscounts
	m.tariffs = snap.tariffs
}

// ──────────────────────────────────────────────
// SEEDING AND ASSERTION HELPERS
// ──────────────────────────────────────────────

// AddUser seeds a user.
func (m *MockStore) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// AddDriver seeds a driver profile.
func (m *MockStore) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.UserID] = driver
}

// AddTrip seeds a trip.
func (m *MockStore) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

// AddDiscount seeds a discount code.
func (m *MockStore) AddDiscount(code *domain.DiscountCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discounts[code.ID] = code
}

// AddTariff seeds a tariff.
func (m *MockStore) AddTariff(tariff *domain.Tariff) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tariffs = append(m.tariffs, tariff)
}

// GetTrip returns a trip for assertions.
func (m *MockStore) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if trip, ok := m.trips[id]; ok {
		cp := *trip
		return &cp
	}
	return nil
}

// GetUser returns a user for assertions.
func (m *MockStore) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.users[id]; ok {
		cp := *user
		return &cp
	}
	return nil
}

// GetDiscount returns a discount code for assertions.
func (m *MockStore) GetDiscount(id string) *domain.DiscountCode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if code, ok := m.discounts[id]; ok {
		cp := *code
		return &cp
	}
	return nil
}

// CountTransactions returns the total number of ledger rows.
func (m *MockStore) CountTransactions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions)
}

// TransactionsOf returns a user's ledger rows in insertion order.
func (m *MockStore) TransactionsOf(userID string) []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.UserID == userID {
			cp := *txn
			out = append(out, &cp)
		}
	}
	return out
}

// CountPayments returns the total number of payment rows.
func (m *MockStore) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// GetPayment returns a payment for assertions.
func (m *MockStore) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

type mockUserRepo struct{ s *MockStore }

func (r *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *mockUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockUserRepo) AdjustWalletBalance(ctx context.Context, userID string, delta float64, enforceNonNegative bool) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return 0, repository.ErrPreconditionFailed
	}
	if enforceNonNegative && user.WalletBalance+delta < 0 {
		return 0, repository.ErrPreconditionFailed
	}
	user.WalletBalance += delta
	return user.WalletBalance, nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

type mockDriverRepo struct{ s *MockStore }

func (r *mockDriverRepo) Create(ctx context.Context, driver *domain.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *driver
	r.s.drivers[driver.UserID] = &cp
	return nil
}

func (r *mockDriverRepo) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	driver, ok := r.s.drivers[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *driver
	return &cp, nil
}

func (r *mockDriverRepo) UpdateApproval(ctx context.Context, userID string, status domain.DriverApprovalStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	driver, ok := r.s.drivers[userID]
	if !ok {
		return repository.ErrNotFound
	}
	driver.ApprovalStatus = status
	return nil
}

func (r *mockDriverRepo) CountAvailable(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	occupying := map[domain.TripStatus]bool{
		domain.TripStatusPending:    true,
		domain.TripStatusInProgress: true,
		domain.TripStatusWaiting:    true,
	}

	busy := make(map[string]bool)
	for _, trip := range r.s.trips {
		if trip.DriverID != "" && occupying[trip.Status] {
			busy[trip.DriverID] = true
		}
	}

	count := 0
	for _, driver := range r.s.drivers {
		if driver.ApprovalStatus == domain.DriverApprovalApproved && !busy[driver.UserID] {
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

type mockTripRepo struct{ s *MockStore }

func (r *mockTripRepo) Create(ctx context.Context, trip *domain.Trip) error {
	if r.s.TripCreateError != nil {
		return r.s.TripCreateError
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *trip
	r.s.trips[trip.ID] = &cp
	return nil
}

func (r *mockTripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	trip, ok := r.s.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *trip
	return &cp, nil
}

func (r *mockTripRepo) ListAvailable(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Trip
	for _, trip := range r.s.trips {
		if trip.Status == domain.TripStatusPending && trip.DriverID == "" {
			cp := *trip
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *mockTripRepo) ListByPassenger(ctx context.Context, passengerID string, limit, offset int) ([]*domain.Trip, error) {
	return r.listFiltered(func(t *domain.Trip) bool { return t.PassengerID == passengerID }, limit, offset)
}

func (r *mockTripRepo) ListByDriver(ctx context.Context, driverID string, limit, offset int) ([]*domain.Trip, error) {
	return r.listFiltered(func(t *domain.Trip) bool { return t.DriverID == driverID }, limit, offset)
}

func (r *mockTripRepo) listFiltered(keep func(*domain.Trip) bool, limit, offset int) ([]*domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Trip
	for _, trip := range r.s.trips {
		if keep(trip) {
			cp := *trip
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *mockTripRepo) ActiveByDriver(ctx context.Context, driverID string) (*domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if trip := r.activeByDriverLocked(driverID); trip != nil {
		cp := *trip
		return &cp, nil
	}
	return nil, nil
}

func (r *mockTripRepo) activeByDriverLocked(driverID string) *domain.Trip {
	for _, trip := range r.s.trips {
		if trip.DriverID != driverID {
			continue
		}
		for _, status := range domain.ActiveTripStatuses {
			if trip.Status == status {
				return trip
			}
		}
	}
	return nil
}

func (r *mockTripRepo) AssignDriver(ctx context.Context, tripID, driverID string) error {
	atomic.AddInt32(&r.s.AssignDriverCallCount, 1)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	trip, ok := r.s.trips[tripID]
	if !ok {
		return repository.ErrPreconditionFailed
	}
	if trip.Status != domain.TripStatusPending || trip.DriverID != "" {
		return repository.ErrPreconditionFailed
	}
	if r.activeByDriverLocked(driverID) != nil {
		return repository.ErrPreconditionFailed
	}

	trip.DriverID = driverID
	trip.Status = domain.TripStatusAccepted
	trip.UpdatedAt = time.Now()
	return nil
}

func (r *mockTripRepo) Transition(ctx context.Context, tripID, driverID string, from []domain.TripStatus, to domain.TripStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	trip, ok := r.s.trips[tripID]
	if !ok || trip.DriverID != driverID {
		return repository.ErrPreconditionFailed
	}

	matched := false
	for _, status := range from {
		if trip.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return repository.ErrPreconditionFailed
	}

	trip.Status = to
	now := time.Now()
	switch to {
	case domain.TripStatusInProgress:
		trip.StartTime = now
	case domain.TripStatusCompleted:
		trip.EndTime = now
	}
	trip.UpdatedAt = now
	return nil
}

func (r *mockTripRepo) AttachPayment(ctx context.Context, tripID, paymentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	trip, ok := r.s.trips[tripID]
	if !ok || trip.PaymentID != "" {
		return repository.ErrPreconditionFailed
	}
	trip.PaymentID = paymentID
	trip.UpdatedAt = time.Now()
	return nil
}

func (r *mockTripRepo) CountByDiscountAndPassenger(ctx context.Context, discountCodeID, passengerID string) (int, error) {
	if r.s.TripCountError != nil {
		return 0, r.s.TripCountError
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, trip := range r.s.trips {
		if trip.DiscountCodeID == discountCodeID && trip.PassengerID == passengerID {
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

type mockPaymentRepo struct{ s *MockStore }

func (r *mockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	if r.s.PaymentCreateError != nil {
		return r.s.PaymentCreateError
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *payment
	r.s.payments[payment.ID] = &cp
	return nil
}

func (r *mockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	payment, ok := r.s.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *payment
	return &cp, nil
}

func (r *mockPaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	if r.s.PaymentUpdateError != nil {
		return r.s.PaymentUpdateError
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment, ok := r.s.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

type mockTransactionRepo struct{ s *MockStore }

func (r *mockTransactionRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	atomic.AddInt32(&r.s.TransactionCreateCallCount, 1)
	if r.s.TransactionCreateError != nil {
		return r.s.TransactionCreateError
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *txn
	r.s.transactions = append(r.s.transactions, &cp)
	return nil
}

func (r *mockTransactionRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Transaction
	for i := len(r.s.transactions) - 1; i >= 0; i-- {
		if r.s.transactions[i].UserID == userID {
			cp := *r.s.transactions[i]
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

// ──────────────────────────────────────────────
// MOCK DISCOUNT REPOSITORY
// ──────────────────────────────────────────────

type mockDiscountRepo struct{ s *MockStore }

func (r *mockDiscountRepo) Create(ctx context.Context, code *domain.DiscountCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *code
	r.s.discounts[code.ID] = &cp
	return nil
}

func (r *mockDiscountRepo) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, dc := range r.s.discounts {
		if dc.Code == code && !r.s.deletedDiscounts[dc.ID] {
			cp := *dc
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockDiscountRepo) GetByID(ctx context.Context, id string) (*domain.DiscountCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	dc, ok := r.s.discounts[id]
	if !ok || r.s.deletedDiscounts[id] {
		return nil, repository.ErrNotFound
	}
	cp := *dc
	return &cp, nil
}

func (r *mockDiscountRepo) IncrementUsage(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dc, ok := r.s.discounts[id]
	if !ok || r.s.deletedDiscounts[id] {
		return repository.ErrPreconditionFailed
	}
	if dc.UsageLimit != nil && dc.UsageCount >= *dc.UsageLimit {
		return repository.ErrPreconditionFailed
	}
	dc.UsageCount++
	return nil
}

func (r *mockDiscountRepo) SoftDelete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.discounts[id]; !ok || r.s.deletedDiscounts[id] {
		return repository.ErrNotFound
	}
	r.s.deletedDiscounts[id] = true
	return nil
}

// ──────────────────────────────────────────────
// MOCK TARIFF REPOSITORY
// ──────────────────────────────────────────────

type mockTariffRepo struct{ s *MockStore }

func (r *mockTariffRepo) Create(ctx context.Context, tariff *domain.Tariff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *tariff
	r.s.tariffs = append(r.s.tariffs, &cp)
	return nil
}

func (r *mockTariffRepo) LatestByTripType(ctx context.Context, tripType domain.TripType) (*domain.Tariff, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *domain.Tariff
	for _, tariff := range r.s.tariffs {
		if tariff.TripType != tripType {
			continue
		}
		if latest == nil || tariff.CreatedAt.After(latest.CreatedAt) {
			latest = tariff
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *mockTariffRepo) List(ctx context.Context, limit, offset int) ([]*domain.Tariff, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Tariff, 0, len(r.s.tariffs))
	for _, tariff := range r.s.tariffs {
		cp := *tariff
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Ensure MockStore implements repository.Store.
var _ repository.Store = (*MockStore)(nil)
