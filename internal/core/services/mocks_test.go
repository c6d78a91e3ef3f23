package services_test

import (
	"context"
	"time"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, accountID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes []domain.BalanceChange, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, changes, updatedBy, now)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockLedgerRepository) SummarizeDailyVolume(ctx context.Context, filter domain.TransactionFilter) ([]domain.DailyVolumeRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyVolumeRow), args.Error(1)
}

func (m *MockLedgerRepository) SaveCompletedTransaction(ctx context.Context, txn domain.Transaction, changes []domain.BalanceChange) error {
	args := m.Called(ctx, txn, changes)
	return args.Error(0)
}

func (m *MockLedgerRepository) SavePendingTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) CompletePendingTransaction(ctx context.Context, transactionID string, completedAt time.Time, updatedBy string, changes []domain.BalanceChange) error {
	args := m.Called(ctx, transactionID, completedAt, updatedBy, changes)
	return args.Error(0)
}

func (m *MockLedgerRepository) FailPendingTransaction(ctx context.Context, transactionID string, completedAt time.Time, updatedBy string) error {
	args := m.Called(ctx, transactionID, completedAt, updatedBy)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveReversal(ctx context.Context, reversal domain.Transaction, originalTransactionID string, changes []domain.BalanceChange) error {
	args := m.Called(ctx, reversal, originalTransactionID, changes)
	return args.Error(0)
}

// MockFloatRepository is a mock type for the FloatRequestRepositoryFacade interface
type MockFloatRepository struct {
	mock.Mock
}

func (m *MockFloatRepository) FindFloatRequestByID(ctx context.Context, requestID string) (*domain.FloatRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FloatRequest), args.Error(1)
}

func (m *MockFloatRepository) ListFloatRequests(ctx context.Context, accountID *string, status *domain.FloatRequestStatus, limit int, nextToken *string) ([]domain.FloatRequest, *string, error) {
	args := m.Called(ctx, accountID, status, limit, nextToken)
	var requests []domain.FloatRequest
	if args.Get(0) != nil {
		requests = args.Get(0).([]domain.FloatRequest)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return requests, token, args.Error(2)
}

func (m *MockFloatRepository) SaveFloatRequest(ctx context.Context, request domain.FloatRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockFloatRepository) ApproveFloatRequestWithMint(ctx context.Context, requestID string, adminID string, processedAt time.Time, mint domain.Transaction, change domain.BalanceChange) error {
	args := m.Called(ctx, requestID, adminID, processedAt, mint, change)
	return args.Error(0)
}

func (m *MockFloatRepository) RejectFloatRequest(ctx context.Context, requestID string, adminID string, processedAt time.Time) error {
	args := m.Called(ctx, requestID, adminID, processedAt)
	return args.Error(0)
}
