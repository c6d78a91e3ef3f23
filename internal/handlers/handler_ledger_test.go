package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/badnails/mfs-ledger/internal/apperrors"
	"github.com/badnails/mfs-ledger/internal/core/domain"
	portssvc "github.com/badnails/mfs-ledger/internal/core/ports/services"
	"github.com/badnails/mfs-ledger/internal/dto"
	"github.com/badnails/mfs-ledger/internal/handlers"
	"github.com/badnails/mfs-ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Transfer(ctx context.Context, sourceAccountID string, req dto.TransferRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, sourceAccountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) CashIn(ctx context.Context, agentAccountID string, req dto.CashRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, agentAccountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) CashOut(ctx context.Context, agentAccountID string, req dto.CashRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, agentAccountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) IssueBill(ctx context.Context, billerAccountID string, req dto.IssueBillRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, billerAccountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) PayBill(ctx context.Context, debtorAccountID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, debtorAccountID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) CancelBill(ctx context.Context, billerAccountID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, billerAccountID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) AdminAdjust(ctx context.Context, actingAdminID string, req dto.AdminAdjustRequest) (*dto.AdjustmentResponse, error) {
	args := m.Called(ctx, actingAdminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdjustmentResponse), args.Error(1)
}
func (m *MockLedgerService) GetTransactionByID(ctx context.Context, actingAccountID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, actingAccountID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ListTransactions(ctx context.Context, actingAccountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, actingAccountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockLedgerService) SummarizeDailyVolume(ctx context.Context, actingAccountID string, params dto.ListTransactionsParams) ([]domain.DailyVolumeRow, error) {
	args := m.Called(ctx, actingAccountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyVolumeRow), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
	jwtSecret         string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *LedgerHandlerTestSuite) generateTestToken(accountID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "mfs-test",
		Subject:   accountID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockLedgerService = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterLedgerRoutes(v1, suite.mockLedgerService)
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestTransfer_Success() {
	sourceID := "alice"
	destID := "bob"
	amount := decimal.RequireFromString("60.00")
	now := time.Now()

	expected := &domain.Transaction{
		TransactionID:        uuid.NewString(),
		TransactionType:      domain.Transfer,
		SourceAccountID:      &sourceID,
		DestinationAccountID: destID,
		SubAmount:            amount,
		FeesAmount:           decimal.Zero,
		TotalAmount:          amount,
		Status:               domain.Completed,
		InitiatedAt:          now,
		CompletedAt:          &now,
	}

	suite.mockLedgerService.On("Transfer",
		mock.Anything,
		sourceID,
		mock.MatchedBy(func(req dto.TransferRequest) bool {
			return req.DestinationAccountID == destID && req.Amount.Equal(amount)
		}),
	).Return(expected, nil).Once()

	body, _ := json.Marshal(gin.H{"destinationAccountID": destID, "amount": "60.00"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(sourceID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.TransactionID, resp.TransactionID)
	suite.Equal(string(domain.Completed), string(resp.Status))
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestTransfer_MissingToken() {
	body, _ := json.Marshal(gin.H{"destinationAccountID": "bob", "amount": "60.00"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Transfer")
}

func (suite *LedgerHandlerTestSuite) TestTransfer_InsufficientFunds() {
	sourceID := "alice"
	suite.mockLedgerService.On("Transfer", mock.Anything, sourceID, mock.Anything).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	body, _ := json.Marshal(gin.H{"destinationAccountID": "bob", "amount": "60.00"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(sourceID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestTransfer_MalformedBody() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader([]byte(`{"amount":`)))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("alice"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Transfer")
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_Success() {
	actingID := "alice"
	expected := &dto.ListTransactionsResponse{
		Transactions: []dto.TransactionResponse{
			{TransactionID: uuid.NewString(), TransactionType: domain.Transfer, Status: domain.Completed},
		},
		NextToken: nil,
	}

	suite.mockLedgerService.On("ListTransactions",
		mock.Anything,
		actingID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.Limit == 10
		}),
	).Return(expected, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions?limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actingID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListTransactionsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.Equal(expected.Transactions[0].TransactionID, resp.Transactions[0].TransactionID)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetTransaction_NotFound() {
	actingID := "alice"
	suite.mockLedgerService.On("GetTransactionByID", mock.Anything, actingID, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions/missing", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actingID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestDailyVolume_Forbidden() {
	actingID := "alice"
	suite.mockLedgerService.On("SummarizeDailyVolume", mock.Anything, actingID, mock.Anything).
		Return(nil, apperrors.ErrForbidden).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/reports/daily-volume", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actingID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
}

// --- Run Test Suite ---
func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
