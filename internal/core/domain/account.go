package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies the role of an account holder on the platform.
type AccountType string

const (
	Personal AccountType = "PERSONAL"
	Agent    AccountType = "AGENT"
	Merchant AccountType = "MERCHANT"
	Biller   AccountType = "BILLER"
	Admin    AccountType = "ADMIN"
)

// AccountStatus is the lifecycle status of an account. Accounts are never
// deleted; only the status changes.
type AccountStatus string

const (
	Unverified AccountStatus = "UNVERIFIED"
	Active     AccountStatus = "ACTIVE"
	Suspended  AccountStatus = "SUSPENDED"
)

// Account represents an account holder and their balances within the ledger.
// Balance fields are written exclusively through the ledger repository's
// atomic mutation path; services never update them directly.
type Account struct {
	AccountID        string          `json:"accountID"` // Caller-chosen at signup, unique
	AccountType      AccountType     `json:"accountType"`
	DisplayName      string          `json:"displayName"`
	AvailableBalance decimal.Decimal `json:"availableBalance"` // Spendable now; never negative
	CurrentBalance   decimal.Decimal `json:"currentBalance"`   // Ledger balance including holds
	Status           AccountStatus   `json:"status"`
	PasswordHash     string          `json:"-"`
	AuditFields
}

// CanTransact reports whether the account may take part in money movement.
func (a *Account) CanTransact() bool {
	return a.Status == Active
}

// IsAdmin reports whether the account carries admin privilege.
func (a *Account) IsAdmin() bool {
	return a.AccountType == Admin
}
