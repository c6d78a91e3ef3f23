package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/badnails/mfs-ledger/internal/apperrors"
	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/badnails/mfs-ledger/internal/core/services"
	"github.com/badnails/mfs-ledger/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReversalServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockAccountRepo *MockAccountRepository
	cfg             *config.Config
	service         *services.ReversalService
}

func (suite *ReversalServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.cfg = &config.Config{
		CommissionRate: decimal.RequireFromString("0.01"),
	}
	suite.service = services.NewReversalService(suite.mockLedgerRepo, suite.mockAccountRepo, suite.cfg, nil)
}

func completedTransfer(id, source, dest, amount string) *domain.Transaction {
	now := time.Now()
	sub := decimal.RequireFromString(amount)
	return &domain.Transaction{
		TransactionID:        id,
		TransactionType:      domain.Transfer,
		SourceAccountID:      &source,
		DestinationAccountID: dest,
		SubAmount:            sub,
		FeesAmount:           decimal.Zero,
		TotalAmount:          sub,
		Status:               domain.Completed,
		InitiatedAt:          now,
		CompletedAt:          &now,
	}
}

func (suite *ReversalServiceTestSuite) TestCheckEligibility_Eligible() {
	ctx := context.Background()
	txn := completedTransfer("txn-1", "alice", "bob", "60.00")
	accounts := map[string]domain.Account{
		"alice": activeAccount("alice", domain.Personal, "40.00"),
		"bob":   activeAccount("bob", domain.Personal, "65.00"),
	}
	suite.mockLedgerRepo.On("FindTransactionByID", ctx, "txn-1").Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{"alice", "bob"}).Return(accounts, nil).Once()

	result, err := suite.service.CheckEligibility(ctx, "txn-1")

	suite.Require().NoError(err)
	suite.True(result.Eligible)
	suite.Empty(result.Reason)
	suite.True(result.Shortfall.IsZero())
	suite.True(result.ProjectedSourceBalance.Equal(decimal.RequireFromString("100.00")))
	suite.True(result.ProjectedDestBalance.Equal(decimal.RequireFromString("5.00")))
	suite.True(result.ReversedAmount.Equal(decimal.RequireFromString("60.00")))
	suite.False(result.IncludesFees)
	suite.Equal(domain.Completed, result.OriginalTransactionStatus)
}

func (suite *ReversalServiceTestSuite) TestCheckEligibility_DestinationSpentDown() {
	ctx := context.Background()
	txn := completedTransfer("txn-1", "alice", "bob", "60.00")
	accounts := map[string]domain.Account{
		"alice": activeAccount("alice", domain.Personal, "40.00"),
		"bob":   activeAccount("bob", domain.Personal, "25.00"),
	}
	suite.mockLedgerRepo.On("FindTransactionByID", ctx, "txn-1").Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{"alice", "bob"}).Return(accounts, nil).Once()

	result, err := suite.service.CheckEligibility(ctx, "txn-1")

	suite.Require().NoError(err)
	suite.False(result.Eligible)
	suite.NotEmpty(result.Reason)
	suite.True(result.Shortfall.Equal(decimal.RequireFromString("35.00")))
	suite.True(result.ProjectedDestBalance.Equal(decimal.RequireFromString("-35.00")))
}

func (suite *ReversalServiceTestSuite) TestCheckEligibility_NotCompleted() {
	ctx := context.Background()
	txn := completedTransfer("txn-1", "alice", "bob", "60.00")
	txn.Status = domain.Pending
	txn.CompletedAt = nil
	suite.mockLedgerRepo.On("FindTransactionByID", ctx, "txn-1").Return(txn, nil).Once()

	result, err := suite.service.CheckEligibility(ctx, "txn-1")

	suite.Require().NoError(err)
	suite.False(result.Eligible)
	suite.NotEmpty(result.Reason)
	suite.Equal(domain.Pending, result.OriginalTransactionStatus)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs")
}

func (suite *ReversalServiceTestSuite) TestCheckEligibility_SystemSourced() {
	ctx := context.Background()
	now := time.Now()
	txn := &domain.Transaction{
		TransactionID:        "adj-1",
		TransactionType:      domain.AdminAdjustment,
		SourceAccountID:      nil,
		DestinationAccountID: "alice",
		SubAmount:            decimal.RequireFromString("1000.00"),
		TotalAmount:          decimal.RequireFromString("1000.00"),
		Status:               domain.Completed,
		InitiatedAt:          now,
		CompletedAt:          &now,
	}
	suite.mockLedgerRepo.On("FindTransactionByID", ctx, "adj-1").Return(txn, nil).Once()

	result, err := suite.service.CheckEligibility(ctx, "adj-1")

	suite.Require().NoError(err)
	suite.False(result.Eligible)
	suite.Contains(result.Reason, "BURN")
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs")
}

func (suite *ReversalServiceTestSuite) TestCheckEligibility_FeeClawback() {
	// Cash-in of 100.00 with 1.00 commission minted to the agent. With fee
	// refunds enabled the agent gives back 99.00 net and the clawback is
	// reported on the result.
	suite.cfg.RefundFeesOnRevert = true

	ctx := context.Background()
	now := time.Now()
	agentID := "agent1"
	txn := &domain.Transaction{
		TransactionID:        "ci-1",
		TransactionType:      domain.CashIn,
		SourceAccountID:      &agentID,
		DestinationAccountID: "cust1",
		SubAmount:            decimal.RequireFromString("100.00"),
		FeesAmount:           decimal.RequireFromString("1.00"),
		TotalAmount:          decimal.RequireFromString("101.00"),
		Status:               domain.Completed,
		InitiatedAt:          now,
		CompletedAt:          &now,
	}
	accounts := map[string]domain.Account{
		"agent1": activeAccount("agent1", domain.Agent, "401.00"),
		"cust1":  activeAccount("cust1", domain.Personal, "100.00"),
	}
	suite.mockLedgerRepo.On("FindTransactionByID", ctx, "ci-1").Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{"agent1", "cust1"}).Return(accounts, nil).Once()

	result, err := suite.service.CheckEligibility(ctx, "ci-1")

	suite.Require().NoError(err)
	suite.True(result.Eligible)
	suite.True(result.IncludesFees)
	// 401.00 + (100.00 - 1.00 clawback) = 500.00
	suite.True(result.ProjectedSourceBalance.Equal(decimal.RequireFromString("500.00")))
	suite.True(result.ProjectedDestBalance.IsZero())
}

func (suite *ReversalServiceTestSuite) TestExecuteRevert_Success() {
	ctx := context.Background()
	admin := activeAccount("admin01", domain.Admin, "0.00")
	txn := completedTransfer("txn-1", "alice", "bob", "60.00")

	suite.mockAccountRepo.On("FindAccountByID", ctx, "admin01").Return(&admin, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionByID", ctx, "txn-1").Return(txn, nil).Once()
	suite.mockLedgerRepo.On("SaveReversal", ctx,
		mock.MatchedBy(func(rev domain.Transaction) bool {
			return rev.TransactionType == domain.Reversal &&
				rev.SourceAccountID != nil && *rev.SourceAccountID == "bob" &&
				rev.DestinationAccountID == "alice" &&
				rev.SubAmount.Equal(decimal.RequireFromString("60.00")) &&
				rev.ReversalOf != nil && *rev.ReversalOf == "txn-1" &&
				rev.Status == domain.Completed
		}),
		"txn-1",
		mock.MatchedBy(func(changes []domain.BalanceChange) bool {
			return changeFor(changes, "bob").Equal(decimal.RequireFromString("-60.00")) &&
				changeFor(changes, "alice").Equal(decimal.RequireFromString("60.00"))
		})).Return(nil).Once()

	reversal, err := suite.service.ExecuteRevert(ctx, "txn-1", "admin01")

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.Reversal, reversal.TransactionType)
	suite.Require().NotNil(reversal.ReversalOf)
	suite.Equal("txn-1", *reversal.ReversalOf)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ReversalServiceTestSuite) TestExecuteRevert_AlreadyReverted() {
	ctx := context.Background()
	admin := activeAccount("admin01", domain.Admin, "0.00")
	txn := completedTransfer("txn-1", "alice", "bob", "60.00")
	txn.Status = domain.Reverted

	suite.mockAccountRepo.On("FindAccountByID", ctx, "admin01").Return(&admin, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionByID", ctx, "txn-1").Return(txn, nil).Once()

	reversal, err := suite.service.ExecuteRevert(ctx, "txn-1", "admin01")

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrAlreadyReverted)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveReversal")
}

func (suite *ReversalServiceTestSuite) TestExecuteRevert_NonAdmin() {
	ctx := context.Background()
	caller := activeAccount("bob", domain.Personal, "0.00")
	suite.mockAccountRepo.On("FindAccountByID", ctx, "bob").Return(&caller, nil).Once()

	reversal, err := suite.service.ExecuteRevert(ctx, "txn-1", "bob")

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "FindTransactionByID")
}

func (suite *ReversalServiceTestSuite) TestExecuteRevert_SystemSourced() {
	ctx := context.Background()
	admin := activeAccount("admin01", domain.Admin, "0.00")
	now := time.Now()
	txn := &domain.Transaction{
		TransactionID:        "adj-1",
		TransactionType:      domain.AdminAdjustment,
		DestinationAccountID: "alice",
		SubAmount:            decimal.RequireFromString("1000.00"),
		TotalAmount:          decimal.RequireFromString("1000.00"),
		Status:               domain.Completed,
		InitiatedAt:          now,
		CompletedAt:          &now,
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, "admin01").Return(&admin, nil).Once()
	suite.mockLedgerRepo.On("FindTransactionByID", ctx, "adj-1").Return(txn, nil).Once()

	reversal, err := suite.service.ExecuteRevert(ctx, "adj-1", "admin01")

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveReversal")
}

func TestReversalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReversalServiceTestSuite))
}
