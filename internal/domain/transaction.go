package domain

import "time"

// TransactionType represents the kind of ledger entry.
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "deposit"
	TransactionTypeWithdraw    TransactionType = "withdraw"
	TransactionTypeTripPayment TransactionType = "trip_payment"
	TransactionTypeRefund      TransactionType = "refund"
	TransactionTypeAdjustment  TransactionType = "adjustment"
)

// DebitType reports whether t has debit semantics, i.e. the signed amount is
// expected to be negative and must be covered by the current balance.
func (t TransactionType) DebitType() bool {
	return t == TransactionTypeWithdraw || t == TransactionTypeTripPayment
}

// Transaction is an immutable ledger row. Rows are write-once: never updated,
// never deleted. The sum of a user's transactions equals the user's cached
// wallet balance at every commit point.
type Transaction struct {
	ID        string
	UserID    string
	Amount    float64 // signed: negative debits, positive credits
	Type      TransactionType
	PaymentID string
	Date      time.Time
}
