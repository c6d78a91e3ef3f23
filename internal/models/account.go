package models

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies the role of an account holder.
type AccountType string

const (
	Personal AccountType = "PERSONAL"
	Agent    AccountType = "AGENT"
	Merchant AccountType = "MERCHANT"
	Biller   AccountType = "BILLER"
	Admin    AccountType = "ADMIN"
)

// Account is the persistence model for the accounts table. Balance columns are
// only ever written inside the ledger repository's locked unit of work.
type Account struct {
	AccountID        string          `db:"account_id"`
	AccountType      AccountType     `db:"account_type"`
	DisplayName      string          `db:"display_name"`
	AvailableBalance decimal.Decimal `db:"available_balance"`
	CurrentBalance   decimal.Decimal `db:"current_balance"`
	Status           string          `db:"status"`
	PasswordHash     string          `db:"password_hash"`
	AuditFields
}
