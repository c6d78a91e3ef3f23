package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates the workflows that move money.
type TransactionType string

const (
	Transfer        TransactionType = "TRANSFER"
	CashIn          TransactionType = "CASH_IN"
	CashOut         TransactionType = "CASH_OUT"
	Payment         TransactionType = "PAYMENT"
	AdminAdjustment TransactionType = "ADMIN_ADJUSTMENT"
	FloatTopup      TransactionType = "FLOAT_TOPUP"
	Reversal        TransactionType = "REVERSAL"
)

// TransactionStatus is the state of a transaction.
// Allowed transitions: PENDING -> COMPLETED, PENDING -> FAILED,
// COMPLETED -> REVERTED (via the reversal engine only).
type TransactionStatus string

const (
	Pending   TransactionStatus = "PENDING"
	Completed TransactionStatus = "COMPLETED"
	Failed    TransactionStatus = "FAILED"
	Reverted  TransactionStatus = "REVERTED"
)

// AdjustmentMode selects the direction of an admin balance adjustment.
type AdjustmentMode string

const (
	Mint AdjustmentMode = "MINT"
	Burn AdjustmentMode = "BURN"
)

// Transaction is a single entry in the transaction log. Amounts are immutable
// once the transaction is COMPLETED; only Status may transition afterwards.
type Transaction struct {
	TransactionID        string            `json:"transactionID"` // UUID
	TransactionType      TransactionType   `json:"transactionType"`
	SourceAccountID      *string           `json:"sourceAccountID"` // Nil means system/mint source
	DestinationAccountID string            `json:"destinationAccountID"`
	SubAmount            decimal.Decimal   `json:"subAmount"`   // Principal
	FeesAmount           decimal.Decimal   `json:"feesAmount"`  // Commission/fee, may be zero
	TotalAmount          decimal.Decimal   `json:"totalAmount"` // SubAmount + FeesAmount
	Status               TransactionStatus `json:"status"`
	Reference            string            `json:"reference"` // Free-text correlation id
	Notes                string            `json:"notes"`
	ReversalOf           *string           `json:"reversalOf"` // Set on compensating REVERSAL entries
	InitiatedAt          time.Time         `json:"initiatedAt"`
	CompletedAt          *time.Time        `json:"completedAt"` // Nil until terminal
	AuditFields
}

// IsTerminal reports whether the transaction has reached a terminal status.
// REVERTED follows COMPLETED and is also terminal.
func (t *Transaction) IsTerminal() bool {
	return t.Status == Completed || t.Status == Failed || t.Status == Reverted
}

// CanTransitionTo reports whether the status state machine permits moving to next.
func (t *Transaction) CanTransitionTo(next TransactionStatus) bool {
	switch t.Status {
	case Pending:
		return next == Completed || next == Failed
	case Completed:
		return next == Reverted
	default:
		return false
	}
}

// IsSystemSourced reports whether the movement has no counterparty account
// (admin mint/burn, float top-up).
func (t *Transaction) IsSystemSourced() bool {
	return t.SourceAccountID == nil
}

// BalanceChange is a signed delta to apply to one account's balances within an
// atomic unit of work. The repository re-validates that the resulting available
// balance is non-negative while holding the row lock.
type BalanceChange struct {
	AccountID string
	Available decimal.Decimal
	Current   decimal.Decimal
}

// NewBalanceChange builds a change that moves available and current balances together.
func NewBalanceChange(accountID string, delta decimal.Decimal) BalanceChange {
	return BalanceChange{AccountID: accountID, Available: delta, Current: delta}
}
