package repositories

import (
	"context"
	"time"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by account id.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data. Balance columns are
// excluded here on purpose; they move only through the ledger unit-of-work path.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus transitions an account's lifecycle status.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, updatedAt time.Time) error
}

// AccountLocker defines the in-transaction operations the ledger repositories use
// to lock account rows and apply balance deltas within a single unit of work.
type AccountLocker interface {
	// FindAccountsByIDsForUpdate retrieves accounts and locks their rows.
	// Rows are locked in ascending account id order to prevent deadlock between
	// two mutations touching the same pair of accounts in opposite directions.
	// Must be called within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceChangesInTx applies signed balance deltas to locked accounts.
	// The caller is responsible for having validated the resulting balances.
	ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes []domain.BalanceChange, updatedBy string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountLocker
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
