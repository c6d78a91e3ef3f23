package services

import (
	"context"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/badnails/mfs-ledger/internal/dto"
)

// AccountReaderSvc defines read operations over accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated account listing; admin only.
	ListAccounts(ctx context.Context, actingAccountID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines lifecycle operations over accounts.
type AccountWriterSvc interface {
	// RegisterAccount opens a new account with zero balances and UNVERIFIED status.
	RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error)

	// UpdateAccountStatus transitions an account's lifecycle status; admin only.
	UpdateAccountStatus(ctx context.Context, actingAccountID string, accountID string, status domain.AccountStatus) (*domain.Account, error)
}

// AccountAuthenticatorSvc verifies login credentials.
type AccountAuthenticatorSvc interface {
	// Authenticate verifies credentials and returns the account on success.
	Authenticate(ctx context.Context, accountID string, password string) (*domain.Account, error)
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountAuthenticatorSvc
}
