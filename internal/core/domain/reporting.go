package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionFilter narrows transaction history and analytics reads. All fields
// are optional; the repository compiles the set fields into parameterized SQL.
type TransactionFilter struct {
	AccountID *string            // Matches source or destination
	Status    *TransactionStatus
	Type      *TransactionType
	From      *time.Time // Inclusive lower bound on initiated_at
	To        *time.Time // Exclusive upper bound on initiated_at
}

// DailyVolumeRow is one day's aggregate of completed transaction volume.
type DailyVolumeRow struct {
	Day         time.Time       `json:"day"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalFees   decimal.Decimal `json:"totalFees"`
}

// RevertEligibility is the result of a reversal eligibility check, including the
// balances both parties would hold if the reversal were executed now.
type RevertEligibility struct {
	Eligible                  bool            `json:"eligible"`
	Reason                    string          `json:"reason,omitempty"`
	Shortfall                 decimal.Decimal `json:"shortfall"`
	ProjectedSourceBalance    decimal.Decimal `json:"projectedSourceBalance"`
	ProjectedDestBalance      decimal.Decimal `json:"projectedDestinationBalance"`
	ReversedAmount            decimal.Decimal `json:"reversedAmount"`
	IncludesFees              bool            `json:"includesFees"`
	OriginalTransactionStatus TransactionStatus `json:"originalTransactionStatus"`
}
