package repositories

import (
	"context"
	"time"

	"github.com/badnails/mfs-ledger/internal/core/domain"
)

// TransactionReader defines read operations over the transaction log.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated page of transactions,
	// newest first. It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SummarizeDailyVolume aggregates completed transaction volume per day for the
	// given filter window.
	SummarizeDailyVolume(ctx context.Context, filter domain.TransactionFilter) ([]domain.DailyVolumeRow, error)
}

// LedgerWriter defines the atomic units of work that move money. Every method
// that applies balance changes locks the involved account rows, re-validates
// that no available balance goes negative, writes the balances, and writes the
// transaction row, all within one database transaction.
type LedgerWriter interface {
	// SaveCompletedTransaction inserts a COMPLETED transaction and applies its
	// balance changes atomically. Fails with ErrInsufficientFunds if any change
	// would take an available balance below zero at the instant of mutation.
	SaveCompletedTransaction(ctx context.Context, txn domain.Transaction, changes []domain.BalanceChange) error

	// SavePendingTransaction inserts a PENDING transaction row without moving money
	// (bill issuance).
	SavePendingTransaction(ctx context.Context, txn domain.Transaction) error

	// CompletePendingTransaction transitions PENDING -> COMPLETED and applies the
	// balance changes atomically. The status update is guarded: zero rows affected
	// means the transaction was not PENDING and the unit of work aborts.
	CompletePendingTransaction(ctx context.Context, transactionID string, completedAt time.Time, updatedBy string, changes []domain.BalanceChange) error

	// FailPendingTransaction transitions PENDING -> FAILED. Status-only; no money moves.
	FailPendingTransaction(ctx context.Context, transactionID string, completedAt time.Time, updatedBy string) error

	// SaveReversal inserts a compensating REVERSAL transaction, applies its balance
	// changes, and flips the original transaction COMPLETED -> REVERTED, all
	// atomically. Fails with ErrAlreadyReverted if the original is no longer COMPLETED.
	SaveReversal(ctx context.Context, reversal domain.Transaction, originalTransactionID string, changes []domain.BalanceChange) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	TransactionReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
