package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus mirrors domain.TransactionStatus at the storage layer.
type TransactionStatus string

const (
	Pending   TransactionStatus = "PENDING"
	Completed TransactionStatus = "COMPLETED"
	Failed    TransactionStatus = "FAILED"
	Reverted  TransactionStatus = "REVERTED"
)

// Transaction is the persistence model for the transactions table.
// source_account_id is NULL for system-sourced movements (mint, float top-up).
type Transaction struct {
	TransactionID        string            `db:"transaction_id"`
	TransactionType      string            `db:"transaction_type"`
	SourceAccountID      *string           `db:"source_account_id"`
	DestinationAccountID string            `db:"destination_account_id"`
	SubAmount            decimal.Decimal   `db:"sub_amount"`
	FeesAmount           decimal.Decimal   `db:"fees_amount"`
	TotalAmount          decimal.Decimal   `db:"total_amount"`
	Status               TransactionStatus `db:"status"`
	Reference            string            `db:"reference"`
	Notes                string            `db:"notes"`
	ReversalOf           *string           `db:"reversal_of"`
	InitiatedAt          time.Time         `db:"initiated_at"`
	CompletedAt          *time.Time        `db:"completed_at"`
	AuditFields
}
