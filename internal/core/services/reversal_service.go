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
	"github.com/badnails/mfs-ledger/internal/middleware"
	"github.com/badnails/mfs-ledger/internal/platform/config"
	"github.com/badnails/mfs-ledger/internal/platform/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReversalService implements the reversal engine: eligibility checks and
// execution of compensating reversals against completed transactions.
type ReversalService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	cfg         *config.Config
	publisher   *events.Publisher
}

func NewReversalService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, cfg *config.Config, publisher *events.Publisher) *ReversalService {
	return &ReversalService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		cfg:         cfg,
		publisher:   publisher,
	}
}

// reversalPlan is the computed inverse movement for one original transaction.
type reversalPlan struct {
	sourceDelta decimal.Decimal // applied to the original source account
	destDelta   decimal.Decimal // applied to the original destination account
	feesRefund  decimal.Decimal
}

// planReversal computes the deltas a reversal would apply. The principal always
// flows destination back to source. When fee refunds are enabled the commission
// is clawed back from whichever party it was minted to.
func (s *ReversalService) planReversal(txn *domain.Transaction) reversalPlan {
	plan := reversalPlan{
		sourceDelta: txn.SubAmount,
		destDelta:   txn.SubAmount.Neg(),
		feesRefund:  decimal.Zero,
	}
	if !s.cfg.RefundFeesOnRevert || txn.FeesAmount.IsZero() {
		return plan
	}

	plan.feesRefund = txn.FeesAmount
	switch txn.TransactionType {
	case domain.CashIn:
		// Commission was minted to the agent (source); burn it back.
		plan.sourceDelta = plan.sourceDelta.Sub(txn.FeesAmount)
	case domain.CashOut:
		// Commission was minted to the agent (destination); burn it back.
		plan.destDelta = plan.destDelta.Sub(txn.FeesAmount)
	default:
		plan.feesRefund = decimal.Zero
	}
	return plan
}

// CheckEligibility reports whether the transaction can be reverted now, with
// the balances both parties would hold afterwards. Read-only; the verdict can
// go stale immediately and ExecuteRevert re-validates everything under locks.
func (s *ReversalService) CheckEligibility(ctx context.Context, transactionID string) (*domain.RevertEligibility, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	result := &domain.RevertEligibility{
		Shortfall:                 decimal.Zero,
		ReversedAmount:            txn.SubAmount,
		OriginalTransactionStatus: txn.Status,
	}

	if txn.Status != domain.Completed {
		result.Reason = fmt.Sprintf("transaction is %s, only COMPLETED transactions can be reverted", txn.Status)
		return result, nil
	}
	if txn.IsSystemSourced() {
		result.Reason = "system-sourced adjustments cannot be reverted, use a BURN adjustment instead"
		return result, nil
	}

	plan := s.planReversal(txn)
	result.IncludesFees = plan.feesRefund.IsPositive()

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{*txn.SourceAccountID, txn.DestinationAccountID})
	if err != nil {
		return nil, err
	}
	source, ok := accounts[*txn.SourceAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, *txn.SourceAccountID)
	}
	dest, ok := accounts[txn.DestinationAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, txn.DestinationAccountID)
	}

	result.ProjectedSourceBalance = source.AvailableBalance.Add(plan.sourceDelta)
	result.ProjectedDestBalance = dest.AvailableBalance.Add(plan.destDelta)

	if result.ProjectedDestBalance.IsNegative() {
		result.Shortfall = result.ProjectedDestBalance.Neg()
		result.Reason = fmt.Sprintf("destination account %s holds insufficient funds to give back", txn.DestinationAccountID)
		return result, nil
	}
	if result.ProjectedSourceBalance.IsNegative() {
		// Possible only when a fee clawback exceeds the source's balance.
		result.Shortfall = result.ProjectedSourceBalance.Neg()
		result.Reason = fmt.Sprintf("source account %s cannot cover the fee clawback", *txn.SourceAccountID)
		return result, nil
	}

	result.Eligible = true
	return result, nil
}

// ExecuteRevert performs the compensating movement and flips the original
// transaction to REVERTED, atomically. Admin privilege is enforced here, not by
// handler convention.
func (s *ReversalService) ExecuteRevert(ctx context.Context, transactionID string, actingAdminID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, actingAdminID); err != nil {
		return nil, err
	}

	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	switch txn.Status {
	case domain.Reverted:
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyReverted, transactionID)
	case domain.Completed:
	default:
		return nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrNotCompleted, transactionID, txn.Status)
	}
	if txn.IsSystemSourced() {
		return nil, fmt.Errorf("%w: system-sourced transaction %s cannot be reverted", apperrors.ErrValidation, transactionID)
	}

	plan := s.planReversal(txn)
	now := time.Now()
	originalID := transactionID
	reversalSource := txn.DestinationAccountID
	completedAt := now
	reversal := domain.Transaction{
		TransactionID:        uuid.NewString(),
		TransactionType:      domain.Reversal,
		SourceAccountID:      &reversalSource,
		DestinationAccountID: *txn.SourceAccountID,
		SubAmount:            txn.SubAmount,
		FeesAmount:           plan.feesRefund,
		TotalAmount:          txn.SubAmount.Add(plan.feesRefund),
		Status:               domain.Completed,
		Reference:            txn.Reference,
		Notes:                "reversal of " + transactionID,
		ReversalOf:           &originalID,
		InitiatedAt:          now,
		CompletedAt:          &completedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingAdminID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingAdminID,
		},
	}

	changes := []domain.BalanceChange{
		domain.NewBalanceChange(txn.DestinationAccountID, plan.destDelta),
		domain.NewBalanceChange(*txn.SourceAccountID, plan.sourceDelta),
	}
	if err := s.ledgerRepo.SaveReversal(ctx, reversal, transactionID, changes); err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyReverted) && !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	logger.Info("Transaction reverted",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_id", reversal.TransactionID),
		slog.String("amount", reversal.TotalAmount.StringFixed(2)),
		slog.String("admin", actingAdminID))
	if pubErr := s.publisher.PublishTransaction(ctx, &reversal); pubErr != nil {
		logger.Warn("Failed to publish reversal event", slog.String("error", pubErr.Error()), slog.String("transaction_id", reversal.TransactionID))
	}
	return &reversal, nil
}

func (s *ReversalService) requireAdmin(ctx context.Context, actingAccountID string) error {
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
