package dto

import (
	"time"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest defines a peer transfer. The source is always the
// authenticated caller, never a body field.
type TransferRequest struct {
	DestinationAccountID string          `json:"destinationAccountID" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	Reference            string          `json:"reference"`
}

// CashRequest defines an agent cash-in or cash-out against a customer account.
// The agent is the authenticated caller.
type CashRequest struct {
	CustomerAccountID string          `json:"customerAccountID" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Reference         string          `json:"reference"`
}

// IssueBillRequest pre-creates a PENDING payment owed by the debtor to the
// authenticated biller. No money moves until the debtor pays.
type IssueBillRequest struct {
	DebtorAccountID string          `json:"debtorAccountID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Reference       string          `json:"reference"`
	Notes           string          `json:"notes"`
}

// AdminAdjustRequest defines an admin mint or burn against a target account.
type AdminAdjustRequest struct {
	AccountID string                `json:"accountID" binding:"required"`
	Amount    decimal.Decimal       `json:"amount" binding:"required"`
	Mode      domain.AdjustmentMode `json:"mode" binding:"required,oneof=MINT BURN"`
	Notes     string                `json:"notes"`
}

// TransactionResponse defines the data returned for a transaction log entry.
type TransactionResponse struct {
	TransactionID        string                   `json:"transactionID"`
	TransactionType      domain.TransactionType   `json:"transactionType"`
	SourceAccountID      *string                  `json:"sourceAccountID"`
	DestinationAccountID string                   `json:"destinationAccountID"`
	SubAmount            decimal.Decimal          `json:"subAmount"`
	FeesAmount           decimal.Decimal          `json:"feesAmount"`
	TotalAmount          decimal.Decimal          `json:"totalAmount"`
	Status               domain.TransactionStatus `json:"status"`
	Reference            string                   `json:"reference"`
	Notes                string                   `json:"notes,omitempty"`
	ReversalOf           *string                  `json:"reversalOf,omitempty"`
	InitiatedAt          time.Time                `json:"initiatedAt"`
	CompletedAt          *time.Time               `json:"completedAt"`
}

// AdjustmentResponse pairs the adjustment transaction with the target's updated balance.
type AdjustmentResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     BalanceResponse     `json:"balance"`
}

// ListTransactionsParams holds the typed filter for transaction history reads.
// Filters compile to parameterized SQL in the repository.
type ListTransactionsParams struct {
	Status    *domain.TransactionStatus
	Type      *domain.TransactionType
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is a page of transaction history.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// DailyVolumeResponse is one day's aggregate in the volume summary report.
type DailyVolumeResponse struct {
	Day         string          `json:"day"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalFees   decimal.Decimal `json:"totalFees"`
}

// ToTransactionResponse converts a domain.Transaction to a TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		TransactionType:      txn.TransactionType,
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		SubAmount:            txn.SubAmount,
		FeesAmount:           txn.FeesAmount,
		TotalAmount:          txn.TotalAmount,
		Status:               txn.Status,
		Reference:            txn.Reference,
		Notes:                txn.Notes,
		ReversalOf:           txn.ReversalOf,
		InitiatedAt:          txn.InitiatedAt,
		CompletedAt:          txn.CompletedAt,
	}
}

// ToListTransactionsResponse converts a page of domain transactions to DTOs.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}

// ToDailyVolumeResponse converts daily volume rows to DTOs.
func ToDailyVolumeResponse(rows []domain.DailyVolumeRow) []DailyVolumeResponse {
	res := make([]DailyVolumeResponse, len(rows))
	for i, row := range rows {
		res[i] = DailyVolumeResponse{
			Day:         row.Day.Format("2006-01-02"),
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
			TotalFees:   row.TotalFees,
		}
	}
	return res
}
