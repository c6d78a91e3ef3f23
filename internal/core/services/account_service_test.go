package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/badnails/mfs-ledger/internal/apperrors"
	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/badnails/mfs-ledger/internal/core/services"
	"github.com/badnails/mfs-ledger/internal/dto"
	"github.com/badnails/mfs-ledger/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  *services.AccountService
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_Success() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{
		AccountID:   "alice01",
		Password:    "s3cret-pass",
		DisplayName: "Alice",
		AccountType: domain.Personal,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal("alice01", account.AccountID)
	suite.Equal(domain.Personal, account.AccountType)
	suite.Equal(domain.Unverified, account.Status)
	suite.True(account.AvailableBalance.IsZero())
	suite.True(account.CurrentBalance.IsZero())
	suite.NotEqual(req.Password, account.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, account.PasswordHash))
	suite.WithinDuration(time.Now(), account.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_DuplicateID() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{
		AccountID:   "alice01",
		Password:    "s3cret-pass",
		DisplayName: "Alice",
		AccountType: domain.Personal,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_AdminTypeRejected() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{
		AccountID:   "sneaky",
		Password:    "s3cret-pass",
		DisplayName: "Sneaky",
		AccountType: domain.Admin,
	}

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)

	stored := &domain.Account{
		AccountID:    "alice01",
		AccountType:  domain.Personal,
		Status:       domain.Active,
		PasswordHash: hash,
	}
	suite.mockRepo.On("FindAccountByID", ctx, "alice01").Return(stored, nil).Once()

	account, err := suite.service.Authenticate(ctx, "alice01", "correct-horse")

	suite.Require().NoError(err)
	suite.Equal("alice01", account.AccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)

	stored := &domain.Account{AccountID: "alice01", PasswordHash: hash}
	suite.mockRepo.On("FindAccountByID", ctx, "alice01").Return(stored, nil).Once()

	account, err := suite.service.Authenticate(ctx, "alice01", "wrong-password")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccountServiceTestSuite) TestAuthenticate_UnknownAccount() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.Authenticate(ctx, "ghost", "whatever")

	suite.Require().Error(err)
	suite.Nil(account)
	// Unknown account and wrong password are indistinguishable to the caller.
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestUpdateAccountStatus_AdminOnly() {
	ctx := context.Background()
	nonAdmin := &domain.Account{AccountID: "bob", AccountType: domain.Personal, Status: domain.Active}
	suite.mockRepo.On("FindAccountByID", ctx, "bob").Return(nonAdmin, nil).Once()

	account, err := suite.service.UpdateAccountStatus(ctx, "bob", "alice01", domain.Suspended)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccountStatus")
}

func (suite *AccountServiceTestSuite) TestUpdateAccountStatus_Success() {
	ctx := context.Background()
	admin := &domain.Account{AccountID: "admin01", AccountType: domain.Admin, Status: domain.Active}
	updated := &domain.Account{
		AccountID:        "alice01",
		AccountType:      domain.Personal,
		Status:           domain.Active,
		AvailableBalance: decimal.Zero,
		CurrentBalance:   decimal.Zero,
	}

	suite.mockRepo.On("FindAccountByID", ctx, "admin01").Return(admin, nil).Once()
	suite.mockRepo.On("UpdateAccountStatus", ctx, "alice01", domain.Active, "admin01", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, "alice01").Return(updated, nil).Once()

	account, err := suite.service.UpdateAccountStatus(ctx, "admin01", "alice01", domain.Active)

	suite.Require().NoError(err)
	suite.Equal(domain.Active, account.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
