package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/badnails/mfs-ledger/internal/apperrors"
	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/badnails/mfs-ledger/internal/core/services"
	"github.com/badnails/mfs-ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FloatServiceTestSuite struct {
	suite.Suite
	mockFloatRepo   *MockFloatRepository
	mockAccountRepo *MockAccountRepository
	service         *services.FloatService
}

func (suite *FloatServiceTestSuite) SetupTest() {
	suite.mockFloatRepo = new(MockFloatRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewFloatService(suite.mockFloatRepo, suite.mockAccountRepo, nil)
}

func pendingFloatRequest(id, agentID, amount string) *domain.FloatRequest {
	return &domain.FloatRequest{
		RequestID:   id,
		AccountID:   agentID,
		Amount:      decimal.RequireFromString(amount),
		Status:      domain.FloatPending,
		RequestDate: time.Now(),
		Document:    []byte("receipt"),
	}
}

func (suite *FloatServiceTestSuite) TestSubmitFloatRequest_Success() {
	ctx := context.Background()
	agent := activeAccount("agent1", domain.Agent, "100.00")
	suite.mockAccountRepo.On("FindAccountByID", ctx, "agent1").Return(&agent, nil).Once()
	suite.mockFloatRepo.On("SaveFloatRequest", ctx,
		mock.MatchedBy(func(request domain.FloatRequest) bool {
			return request.AccountID == "agent1" &&
				request.Status == domain.FloatPending &&
				request.Amount.Equal(decimal.RequireFromString("5000.00")) &&
				len(request.Document) > 0
		})).Return(nil).Once()

	request, err := suite.service.SubmitFloatRequest(ctx, "agent1", dto.SubmitFloatRequest{
		Amount:       decimal.RequireFromString("5000.00"),
		Document:     []byte("bank deposit slip"),
		DocumentMime: "application/pdf",
		DocumentName: "slip.pdf",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(request)
	suite.NotEmpty(request.RequestID)
	suite.Equal(domain.FloatPending, request.Status)
	suite.mockFloatRepo.AssertExpectations(suite.T())
}

func (suite *FloatServiceTestSuite) TestSubmitFloatRequest_MissingDocument() {
	ctx := context.Background()

	request, err := suite.service.SubmitFloatRequest(ctx, "agent1", dto.SubmitFloatRequest{
		Amount: decimal.RequireFromString("5000.00"),
	})

	suite.Require().Error(err)
	suite.Nil(request)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFloatRepo.AssertNotCalled(suite.T(), "SaveFloatRequest")
}

func (suite *FloatServiceTestSuite) TestSubmitFloatRequest_NonAgent() {
	ctx := context.Background()
	caller := activeAccount("alice", domain.Personal, "100.00")
	suite.mockAccountRepo.On("FindAccountByID", ctx, "alice").Return(&caller, nil).Once()

	request, err := suite.service.SubmitFloatRequest(ctx, "alice", dto.SubmitFloatRequest{
		Amount:   decimal.RequireFromString("5000.00"),
		Document: []byte("doc"),
	})

	suite.Require().Error(err)
	suite.Nil(request)
	suite.ErrorIs(err, apperrors.ErrWrongAccountType)
	suite.mockFloatRepo.AssertNotCalled(suite.T(), "SaveFloatRequest")
}

func (suite *FloatServiceTestSuite) TestProcessFloatRequest_ApproveMintsFloat() {
	ctx := context.Background()
	admin := activeAccount("admin01", domain.Admin, "0.00")
	pending := pendingFloatRequest("req-1", "agent1", "5000.00")
	approved := *pending
	approved.Status = domain.FloatApproved

	suite.mockAccountRepo.On("FindAccountByID", ctx, "admin01").Return(&admin, nil).Once()
	suite.mockFloatRepo.On("FindFloatRequestByID", ctx, "req-1").Return(pending, nil).Once()
	suite.mockFloatRepo.On("ApproveFloatRequestWithMint", ctx, "req-1", "admin01",
		mock.AnythingOfType("time.Time"),
		mock.MatchedBy(func(mint domain.Transaction) bool {
			return mint.TransactionType == domain.FloatTopup &&
				mint.SourceAccountID == nil &&
				mint.DestinationAccountID == "agent1" &&
				mint.SubAmount.Equal(decimal.RequireFromString("5000.00")) &&
				mint.Reference == "req-1" &&
				mint.Status == domain.Completed
		}),
		mock.MatchedBy(func(change domain.BalanceChange) bool {
			return change.AccountID == "agent1" &&
				change.Available.Equal(decimal.RequireFromString("5000.00"))
		})).Return(nil).Once()
	suite.mockFloatRepo.On("FindFloatRequestByID", ctx, "req-1").Return(&approved, nil).Once()

	request, err := suite.service.ProcessFloatRequest(ctx, "req-1", "admin01", dto.FloatApprove)

	suite.Require().NoError(err)
	suite.Equal(domain.FloatApproved, request.Status)
	suite.mockFloatRepo.AssertExpectations(suite.T())
}

func (suite *FloatServiceTestSuite) TestProcessFloatRequest_Reject() {
	ctx := context.Background()
	admin := activeAccount("admin01", domain.Admin, "0.00")
	pending := pendingFloatRequest("req-1", "agent1", "5000.00")
	rejected := *pending
	rejected.Status = domain.FloatRejected

	suite.mockAccountRepo.On("FindAccountByID", ctx, "admin01").Return(&admin, nil).Once()
	suite.mockFloatRepo.On("FindFloatRequestByID", ctx, "req-1").Return(pending, nil).Once()
	suite.mockFloatRepo.On("RejectFloatRequest", ctx, "req-1", "admin01", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockFloatRepo.On("FindFloatRequestByID", ctx, "req-1").Return(&rejected, nil).Once()

	request, err := suite.service.ProcessFloatRequest(ctx, "req-1", "admin01", dto.FloatReject)

	suite.Require().NoError(err)
	suite.Equal(domain.FloatRejected, request.Status)
	suite.mockFloatRepo.AssertNotCalled(suite.T(), "ApproveFloatRequestWithMint")
}

func (suite *FloatServiceTestSuite) TestProcessFloatRequest_AlreadyProcessed() {
	ctx := context.Background()
	admin := activeAccount("admin01", domain.Admin, "0.00")
	processed := pendingFloatRequest("req-1", "agent1", "5000.00")
	processed.Status = domain.FloatApproved

	suite.mockAccountRepo.On("FindAccountByID", ctx, "admin01").Return(&admin, nil).Once()
	suite.mockFloatRepo.On("FindFloatRequestByID", ctx, "req-1").Return(processed, nil).Once()

	request, err := suite.service.ProcessFloatRequest(ctx, "req-1", "admin01", dto.FloatApprove)

	suite.Require().Error(err)
	suite.Nil(request)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)
	suite.mockFloatRepo.AssertNotCalled(suite.T(), "ApproveFloatRequestWithMint")
}

func (suite *FloatServiceTestSuite) TestProcessFloatRequest_NonAdmin() {
	ctx := context.Background()
	caller := activeAccount("agent1", domain.Agent, "0.00")
	suite.mockAccountRepo.On("FindAccountByID", ctx, "agent1").Return(&caller, nil).Once()

	request, err := suite.service.ProcessFloatRequest(ctx, "req-1", "agent1", dto.FloatApprove)

	suite.Require().Error(err)
	suite.Nil(request)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockFloatRepo.AssertNotCalled(suite.T(), "FindFloatRequestByID")
}

func (suite *FloatServiceTestSuite) TestProcessFloatRequest_UnknownDecision() {
	ctx := context.Background()
	admin := activeAccount("admin01", domain.Admin, "0.00")
	pending := pendingFloatRequest("req-1", "agent1", "5000.00")

	suite.mockAccountRepo.On("FindAccountByID", ctx, "admin01").Return(&admin, nil).Once()
	suite.mockFloatRepo.On("FindFloatRequestByID", ctx, "req-1").Return(pending, nil).Once()

	request, err := suite.service.ProcessFloatRequest(ctx, "req-1", "admin01", dto.FloatDecision("MAYBE"))

	suite.Require().Error(err)
	suite.Nil(request)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FloatServiceTestSuite) TestGetFloatRequestByID_OwnerAllowed() {
	ctx := context.Background()
	pending := pendingFloatRequest("req-1", "agent1", "5000.00")
	suite.mockFloatRepo.On("FindFloatRequestByID", ctx, "req-1").Return(pending, nil).Once()

	request, err := suite.service.GetFloatRequestByID(ctx, "agent1", "req-1")

	suite.Require().NoError(err)
	suite.Equal("req-1", request.RequestID)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID")
}

func (suite *FloatServiceTestSuite) TestGetFloatRequestByID_StrangerForbidden() {
	ctx := context.Background()
	pending := pendingFloatRequest("req-1", "agent1", "5000.00")
	stranger := activeAccount("bob", domain.Personal, "0.00")
	suite.mockFloatRepo.On("FindFloatRequestByID", ctx, "req-1").Return(pending, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, "bob").Return(&stranger, nil).Once()

	request, err := suite.service.GetFloatRequestByID(ctx, "bob", "req-1")

	suite.Require().Error(err)
	suite.Nil(request)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *FloatServiceTestSuite) TestListFloatRequests_NonAdminScopedToSelf() {
	ctx := context.Background()
	agent := activeAccount("agent1", domain.Agent, "0.00")
	suite.mockAccountRepo.On("FindAccountByID", ctx, "agent1").Return(&agent, nil).Once()
	suite.mockFloatRepo.On("ListFloatRequests", ctx,
		mock.MatchedBy(func(accountID *string) bool {
			return accountID != nil && *accountID == "agent1"
		}), (*domain.FloatRequestStatus)(nil), 20, (*string)(nil)).
		Return([]domain.FloatRequest{*pendingFloatRequest("req-1", "agent1", "5000.00")}, nil, nil).Once()

	resp, err := suite.service.ListFloatRequests(ctx, "agent1", dto.ListFloatRequestsParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Len(resp.Requests, 1)
	suite.mockFloatRepo.AssertExpectations(suite.T())
}

func TestFloatServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FloatServiceTestSuite))
}
