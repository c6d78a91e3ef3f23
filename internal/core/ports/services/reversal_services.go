package services

import (
	"context"

	"github.com/badnails/mfs-ledger/internal/core/domain"
)

// ReversalSvcFacade is the reversal engine: eligibility checks and execution of
// compensating reversals against completed transactions.
type ReversalSvcFacade interface {
	// CheckEligibility reports whether the transaction can be reverted now, with
	// the projected balances and any shortfall. Read-only.
	CheckEligibility(ctx context.Context, transactionID string) (*domain.RevertEligibility, error)

	// ExecuteRevert performs the compensating movement and flips the original
	// transaction to REVERTED, atomically. The admin privilege of the acting
	// caller is enforced here, not by handler convention. Re-running against an
	// already-reverted transaction fails with ErrAlreadyReverted.
	ExecuteRevert(ctx context.Context, transactionID string, actingAdminID string) (*domain.Transaction, error)
}
