package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/badnails/mfs-ledger/internal/apperrors"
	"github.com/badnails/mfs-ledger/internal/core/domain"
	portsrepo "github.com/badnails/mfs-ledger/internal/core/ports/repositories"
	"github.com/badnails/mfs-ledger/internal/dto"
	"github.com/badnails/mfs-ledger/internal/middleware"
	"github.com/badnails/mfs-ledger/internal/platform/config"
	"github.com/badnails/mfs-ledger/internal/platform/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService implements the money movement workflows and history reads.
// Precondition checks here are advisory; the repository re-validates balances
// and status guards under row locks, and its verdict is final.
type LedgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	cfg         *config.Config
	publisher   *events.Publisher
}

func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, cfg *config.Config, publisher *events.Publisher) *LedgerService {
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		cfg:         cfg,
		publisher:   publisher,
	}
}

// validateAmount rejects non-positive amounts and sub-cent precision.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount must have at most two decimal places", apperrors.ErrValidation)
	}
	return nil
}

// fetchTransactingParties loads the given accounts and checks each can take
// part in money movement (status ACTIVE).
func (s *LedgerService) fetchTransactingParties(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !account.CanTransact() {
			return nil, fmt.Errorf("%w: account %s is %s", apperrors.ErrForbidden, id, account.Status)
		}
	}
	return accounts, nil
}

// commissionFor computes the agent commission on an amount, rounded to cents.
func (s *LedgerService) commissionFor(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.cfg.CommissionRate).Round(2)
}

func (s *LedgerService) publishEvent(ctx context.Context, txn *domain.Transaction) {
	if err := s.publisher.PublishTransaction(ctx, txn); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish transaction event",
			slog.String("error", err.Error()),
			slog.String("transaction_id", txn.TransactionID))
	}
}

func newCompletedTransaction(txnType domain.TransactionType, source *string, destination string, sub, fees decimal.Decimal, reference, notes, createdBy string, now time.Time) domain.Transaction {
	completedAt := now
	return domain.Transaction{
		TransactionID:        uuid.NewString(),
		TransactionType:      txnType,
		SourceAccountID:      source,
		DestinationAccountID: destination,
		SubAmount:            sub,
		FeesAmount:           fees,
		TotalAmount:          sub.Add(fees),
		Status:               domain.Completed,
		Reference:            reference,
		Notes:                notes,
		InitiatedAt:          now,
		CompletedAt:          &completedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}
}

// Transfer moves the amount from the caller's account to the destination.
func (s *LedgerService) Transfer(ctx context.Context, sourceAccountID string, req dto.TransferRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if sourceAccountID == req.DestinationAccountID {
		return nil, fmt.Errorf("%w: cannot transfer to own account", apperrors.ErrValidation)
	}

	accounts, err := s.fetchTransactingParties(ctx, sourceAccountID, req.DestinationAccountID)
	if err != nil {
		return nil, err
	}
	if accounts[sourceAccountID].AvailableBalance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, sourceAccountID)
	}

	now := time.Now()
	txn := newCompletedTransaction(domain.Transfer, &sourceAccountID, req.DestinationAccountID,
		req.Amount, decimal.Zero, req.Reference, "", sourceAccountID, now)

	changes := []domain.BalanceChange{
		domain.NewBalanceChange(sourceAccountID, req.Amount.Neg()),
		domain.NewBalanceChange(req.DestinationAccountID, req.Amount),
	}
	if err := s.ledgerRepo.SaveCompletedTransaction(ctx, txn, changes); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to save transfer", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		}
		return nil, err
	}

	logger.Info("Transfer completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("source", sourceAccountID),
		slog.String("destination", req.DestinationAccountID),
		slog.String("amount", req.Amount.StringFixed(2)))
	s.publishEvent(ctx, &txn)
	return &txn, nil
}

// CashIn moves float from the calling agent to a personal customer account.
// The commission is minted to the agent within the same unit of work, so the
// agent's net debit is amount minus commission.
func (s *LedgerService) CashIn(ctx context.Context, agentAccountID string, req dto.CashRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	accounts, err := s.fetchTransactingParties(ctx, agentAccountID, req.CustomerAccountID)
	if err != nil {
		return nil, err
	}
	if err := requireAccountType(accounts[agentAccountID], domain.Agent); err != nil {
		return nil, err
	}
	if err := requireAccountType(accounts[req.CustomerAccountID], domain.Personal); err != nil {
		return nil, err
	}
	if accounts[agentAccountID].AvailableBalance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: agent %s", apperrors.ErrInsufficientFunds, agentAccountID)
	}

	commission := s.commissionFor(req.Amount)
	now := time.Now()
	txn := newCompletedTransaction(domain.CashIn, &agentAccountID, req.CustomerAccountID,
		req.Amount, commission, req.Reference, "", agentAccountID, now)

	changes := []domain.BalanceChange{
		domain.NewBalanceChange(agentAccountID, commission.Sub(req.Amount)),
		domain.NewBalanceChange(req.CustomerAccountID, req.Amount),
	}
	if err := s.ledgerRepo.SaveCompletedTransaction(ctx, txn, changes); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to save cash-in", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		}
		return nil, err
	}

	logger.Info("Cash-in completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("agent", agentAccountID),
		slog.String("customer", req.CustomerAccountID),
		slog.String("amount", req.Amount.StringFixed(2)),
		slog.String("commission", commission.StringFixed(2)))
	s.publishEvent(ctx, &txn)
	return &txn, nil
}

// CashOut moves balance from a personal customer account to the calling agent.
// The commission is minted to the agent alongside the principal.
func (s *LedgerService) CashOut(ctx context.Context, agentAccountID string, req dto.CashRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	accounts, err := s.fetchTransactingParties(ctx, agentAccountID, req.CustomerAccountID)
	if err != nil {
		return nil, err
	}
	if err := requireAccountType(accounts[agentAccountID], domain.Agent); err != nil {
		return nil, err
	}
	if err := requireAccountType(accounts[req.CustomerAccountID], domain.Personal); err != nil {
		return nil, err
	}
	if accounts[req.CustomerAccountID].AvailableBalance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, req.CustomerAccountID)
	}

	commission := s.commissionFor(req.Amount)
	now := time.Now()
	customerID := req.CustomerAccountID
	txn := newCompletedTransaction(domain.CashOut, &customerID, agentAccountID,
		req.Amount, commission, req.Reference, "", agentAccountID, now)

	changes := []domain.BalanceChange{
		domain.NewBalanceChange(req.CustomerAccountID, req.Amount.Neg()),
		domain.NewBalanceChange(agentAccountID, req.Amount.Add(commission)),
	}
	if err := s.ledgerRepo.SaveCompletedTransaction(ctx, txn, changes); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to save cash-out", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		}
		return nil, err
	}

	logger.Info("Cash-out completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("agent", agentAccountID),
		slog.String("customer", req.CustomerAccountID),
		slog.String("amount", req.Amount.StringFixed(2)),
		slog.String("commission", commission.StringFixed(2)))
	s.publishEvent(ctx, &txn)
	return &txn, nil
}

// IssueBill pre-creates a PENDING payment owed by the debtor to the calling
// biller. No money moves until the debtor pays.
func (s *LedgerService) IssueBill(ctx context.Context, billerAccountID string, req dto.IssueBillRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	accounts, err := s.fetchTransactingParties(ctx, billerAccountID, req.DebtorAccountID)
	if err != nil {
		return nil, err
	}
	biller := accounts[billerAccountID]
	if biller.AccountType != domain.Biller && biller.AccountType != domain.Merchant {
		return nil, fmt.Errorf("%w: account %s is %s, expected BILLER or MERCHANT", apperrors.ErrWrongAccountType, billerAccountID, biller.AccountType)
	}

	now := time.Now()
	debtorID := req.DebtorAccountID
	txn := domain.Transaction{
		TransactionID:        uuid.NewString(),
		TransactionType:      domain.Payment,
		SourceAccountID:      &debtorID,
		DestinationAccountID: billerAccountID,
		SubAmount:            req.Amount,
		FeesAmount:           decimal.Zero,
		TotalAmount:          req.Amount,
		Status:               domain.Pending,
		Reference:            req.Reference,
		Notes:                req.Notes,
		InitiatedAt:          now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     billerAccountID,
			LastUpdatedAt: now,
			LastUpdatedBy: billerAccountID,
		},
	}

	if err := s.ledgerRepo.SavePendingTransaction(ctx, txn); err != nil {
		logger.Error("Failed to issue bill", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	logger.Info("Bill issued",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("biller", billerAccountID),
		slog.String("debtor", req.DebtorAccountID),
		slog.String("amount", req.Amount.StringFixed(2)))
	return &txn, nil
}

// PayBill completes a PENDING payment as the debtor, moving the money.
func (s *LedgerService) PayBill(ctx context.Context, debtorAccountID string, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.TransactionType != domain.Payment {
		return nil, fmt.Errorf("%w: transaction %s is not a payment", apperrors.ErrValidation, transactionID)
	}
	if txn.Status != domain.Pending {
		return nil, fmt.Errorf("%w: transaction %s is %s, expected PENDING", apperrors.ErrConflict, transactionID, txn.Status)
	}
	if txn.SourceAccountID == nil || *txn.SourceAccountID != debtorAccountID {
		return nil, fmt.Errorf("%w: account %s is not the debtor of transaction %s", apperrors.ErrForbidden, debtorAccountID, transactionID)
	}

	accounts, err := s.fetchTransactingParties(ctx, debtorAccountID, txn.DestinationAccountID)
	if err != nil {
		return nil, err
	}
	if accounts[debtorAccountID].AvailableBalance.LessThan(txn.SubAmount) {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, debtorAccountID)
	}

	now := time.Now()
	changes := []domain.BalanceChange{
		domain.NewBalanceChange(debtorAccountID, txn.SubAmount.Neg()),
		domain.NewBalanceChange(txn.DestinationAccountID, txn.SubAmount),
	}
	if err := s.ledgerRepo.CompletePendingTransaction(ctx, transactionID, now, debtorAccountID, changes); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to complete bill payment", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	logger.Info("Bill paid",
		slog.String("transaction_id", transactionID),
		slog.String("debtor", debtorAccountID),
		slog.String("amount", txn.SubAmount.StringFixed(2)))

	updated, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, updated)
	return updated, nil
}

// CancelBill fails a PENDING payment. Status-only; callable by the issuing biller.
func (s *LedgerService) CancelBill(ctx context.Context, billerAccountID string, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.TransactionType != domain.Payment {
		return nil, fmt.Errorf("%w: transaction %s is not a payment", apperrors.ErrValidation, transactionID)
	}
	if txn.DestinationAccountID != billerAccountID {
		return nil, fmt.Errorf("%w: account %s did not issue transaction %s", apperrors.ErrForbidden, billerAccountID, transactionID)
	}
	if txn.Status != domain.Pending {
		return nil, fmt.Errorf("%w: transaction %s is %s, expected PENDING", apperrors.ErrConflict, transactionID, txn.Status)
	}

	now := time.Now()
	if err := s.ledgerRepo.FailPendingTransaction(ctx, transactionID, now, billerAccountID); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to cancel bill", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	logger.Info("Bill cancelled", slog.String("transaction_id", transactionID), slog.String("biller", billerAccountID))
	return s.ledgerRepo.FindTransactionByID(ctx, transactionID)
}

// AdminAdjust mints or burns balance on the target account. Admin only. The
// movement has no counterparty; the null source keeps it auditable in the log.
func (s *LedgerService) AdminAdjust(ctx context.Context, actingAdminID string, req dto.AdminAdjustRequest) (*dto.AdjustmentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, actingAdminID); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	target, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	delta := req.Amount
	if req.Mode == domain.Burn {
		delta = req.Amount.Neg()
		if target.AvailableBalance.LessThan(req.Amount) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, req.AccountID)
		}
	}

	notes := req.Notes
	if notes == "" {
		notes = string(req.Mode)
	} else {
		notes = string(req.Mode) + ": " + notes
	}

	now := time.Now()
	txn := newCompletedTransaction(domain.AdminAdjustment, nil, req.AccountID,
		req.Amount, decimal.Zero, "", notes, actingAdminID, now)

	changes := []domain.BalanceChange{domain.NewBalanceChange(req.AccountID, delta)}
	if err := s.ledgerRepo.SaveCompletedTransaction(ctx, txn, changes); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to save adjustment", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		}
		return nil, err
	}

	logger.Info("Admin adjustment completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", req.AccountID),
		slog.String("mode", string(req.Mode)),
		slog.String("amount", req.Amount.StringFixed(2)),
		slog.String("admin", actingAdminID))
	s.publishEvent(ctx, &txn)

	updated, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	resp := &dto.AdjustmentResponse{
		Transaction: dto.ToTransactionResponse(&txn),
		Balance:     dto.ToBalanceResponse(updated),
	}
	return resp, nil
}

// GetTransactionByID retrieves a transaction visible to the caller. Admin
// callers see everything; other callers must be a party to the movement.
func (s *LedgerService) GetTransactionByID(ctx context.Context, actingAccountID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	acting, err := s.accountRepo.FindAccountByID(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}
	if acting.IsAdmin() {
		return txn, nil
	}
	if (txn.SourceAccountID != nil && *txn.SourceAccountID == actingAccountID) || txn.DestinationAccountID == actingAccountID {
		return txn, nil
	}
	return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrForbidden, transactionID)
}

func (s *LedgerService) filterFor(ctx context.Context, actingAccountID string, params dto.ListTransactionsParams) (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{
		Status: params.Status,
		Type:   params.Type,
		From:   params.From,
		To:     params.To,
	}
	acting, err := s.accountRepo.FindAccountByID(ctx, actingAccountID)
	if err != nil {
		return filter, err
	}
	if !acting.IsAdmin() {
		id := actingAccountID
		filter.AccountID = &id
	}
	return filter, nil
}

// ListTransactions retrieves the caller's transaction history, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, actingAccountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter, err := s.filterFor(ctx, actingAccountID, params)
	if err != nil {
		return nil, err
	}

	txns, nextToken, err := s.ledgerRepo.ListTransactions(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list transactions", slog.String("error", err.Error()))
		return nil, err
	}
	resp := dto.ToListTransactionsResponse(txns, nextToken)
	return &resp, nil
}

// SummarizeDailyVolume aggregates completed volume per day. Admin only.
func (s *LedgerService) SummarizeDailyVolume(ctx context.Context, actingAccountID string, params dto.ListTransactionsParams) ([]domain.DailyVolumeRow, error) {
	if err := s.requireAdmin(ctx, actingAccountID); err != nil {
		return nil, err
	}

	filter := domain.TransactionFilter{
		Type: params.Type,
		From: params.From,
		To:   params.To,
	}
	rows, err := s.ledgerRepo.SummarizeDailyVolume(ctx, filter)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to summarize daily volume", slog.String("error", err.Error()))
		return nil, err
	}
	return rows, nil
}

func (s *LedgerService) requireAdmin(ctx context.Context, actingAccountID string) error {
	acting, err := s.accountRepo.FindAccountByID(ctx, actingAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: acting account %s not found", apperrors.ErrForbidden, actingAccountID)
		}
		return err
	}
	if !acting.IsAdmin() {
		return fmt.Errorf("%w: account %s is not an admin", apperrors.ErrForbidden, actingAccountID)
	}
	return nil
}

func requireAccountType(account domain.Account, want domain.AccountType) error {
	if account.AccountType != want {
		return fmt.Errorf("%w: account %s is %s, expected %s", apperrors.ErrWrongAccountType, account.AccountID, account.AccountType, want)
	}
	return nil
}
