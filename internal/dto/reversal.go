package dto

import (
	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RevertEligibilityResponse reports whether a completed transaction can be
// reverted and the balances both parties would hold afterwards.
type RevertEligibilityResponse struct {
	TransactionID               string                   `json:"transactionID"`
	Eligible                    bool                     `json:"eligible"`
	Reason                      string                   `json:"reason,omitempty"`
	Shortfall                   decimal.Decimal          `json:"shortfall"`
	ReversedAmount              decimal.Decimal          `json:"reversedAmount"`
	IncludesFees                bool                     `json:"includesFees"`
	ProjectedSourceBalance      decimal.Decimal          `json:"projectedSourceBalance"`
	ProjectedDestinationBalance decimal.Decimal          `json:"projectedDestinationBalance"`
	OriginalTransactionStatus   domain.TransactionStatus `json:"originalTransactionStatus"`
}

// ToRevertEligibilityResponse converts a domain eligibility result to its DTO.
func ToRevertEligibilityResponse(transactionID string, e *domain.RevertEligibility) RevertEligibilityResponse {
	return RevertEligibilityResponse{
		TransactionID:               transactionID,
		Eligible:                    e.Eligible,
		Reason:                      e.Reason,
		Shortfall:                   e.Shortfall,
		ReversedAmount:              e.ReversedAmount,
		IncludesFees:                e.IncludesFees,
		ProjectedSourceBalance:      e.ProjectedSourceBalance,
		ProjectedDestinationBalance: e.ProjectedDestBalance,
		OriginalTransactionStatus:   e.OriginalTransactionStatus,
	}
}
