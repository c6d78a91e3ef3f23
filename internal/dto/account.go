package dto

import (
	"time"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterAccountRequest defines the data needed to open a new account.
// The account id is caller-chosen at signup and must be unique.
type RegisterAccountRequest struct {
	AccountID   string             `json:"accountID" binding:"required,min=3,max=64"`
	Password    string             `json:"password" binding:"required,min=8"`
	DisplayName string             `json:"displayName" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=PERSONAL AGENT MERCHANT BILLER"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string             `json:"accountID"`
	AccountType      domain.AccountType `json:"accountType"`
	DisplayName      string             `json:"displayName"`
	AvailableBalance decimal.Decimal    `json:"availableBalance"`
	CurrentBalance   decimal.Decimal    `json:"currentBalance"`
	Status           domain.AccountStatus `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	LastUpdatedAt    time.Time          `json:"lastUpdatedAt"`
}

// UpdateAccountStatusRequest defines the admin-only status transition payload.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=UNVERIFIED ACTIVE SUSPENDED"`
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	AccountID        string          `json:"accountID"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		AccountType:      acc.AccountType,
		DisplayName:      acc.DisplayName,
		AvailableBalance: acc.AvailableBalance,
		CurrentBalance:   acc.CurrentBalance,
		Status:           acc.Status,
		CreatedAt:        acc.CreatedAt,
		LastUpdatedAt:    acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ToBalanceResponse converts a domain.Account to a BalanceResponse DTO
func ToBalanceResponse(acc *domain.Account) BalanceResponse {
	return BalanceResponse{
		AccountID:        acc.AccountID,
		AvailableBalance: acc.AvailableBalance,
		CurrentBalance:   acc.CurrentBalance,
	}
}
