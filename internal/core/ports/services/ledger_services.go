package services

import (
	"context"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/badnails/mfs-ledger/internal/dto"
)

// TransferSvc defines the money movement workflows. The acting account id is
// always the authenticated caller resolved by the handler from the token
// context, never from the request body.
type TransferSvc interface {
	// Transfer moves the amount from the caller's account to the destination.
	Transfer(ctx context.Context, sourceAccountID string, req dto.TransferRequest) (*domain.Transaction, error)

	// CashIn moves float from the calling agent to a personal customer account.
	// Commission is minted to the agent within the same unit of work.
	CashIn(ctx context.Context, agentAccountID string, req dto.CashRequest) (*domain.Transaction, error)

	// CashOut moves balance from a personal customer account to the calling agent.
	// Commission is minted to the agent within the same unit of work.
	CashOut(ctx context.Context, agentAccountID string, req dto.CashRequest) (*domain.Transaction, error)

	// IssueBill pre-creates a PENDING payment owed by the debtor to the calling biller.
	IssueBill(ctx context.Context, billerAccountID string, req dto.IssueBillRequest) (*domain.Transaction, error)

	// PayBill completes a PENDING payment as the debtor, moving the money.
	PayBill(ctx context.Context, debtorAccountID string, transactionID string) (*domain.Transaction, error)

	// CancelBill fails a PENDING payment. Status-only; callable by the biller that issued it.
	CancelBill(ctx context.Context, billerAccountID string, transactionID string) (*domain.Transaction, error)

	// AdminAdjust mints or burns balance on the target account; admin only.
	AdminAdjust(ctx context.Context, actingAdminID string, req dto.AdminAdjustRequest) (*dto.AdjustmentResponse, error)
}

// TransactionHistorySvc defines transaction log reads.
type TransactionHistorySvc interface {
	// GetTransactionByID retrieves a transaction visible to the caller.
	GetTransactionByID(ctx context.Context, actingAccountID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves the caller's transaction history. Admin callers
	// see all accounts' transactions.
	ListTransactions(ctx context.Context, actingAccountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// SummarizeDailyVolume aggregates completed volume per day; admin only.
	SummarizeDailyVolume(ctx context.Context, actingAccountID string, params dto.ListTransactionsParams) ([]domain.DailyVolumeRow, error)
}

// LedgerSvcFacade combines the movement workflows and history reads.
type LedgerSvcFacade interface {
	TransferSvc
	TransactionHistorySvc
}
