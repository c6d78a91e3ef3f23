package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/badnails/mfs-ledger/internal/apperrors"
	"github.com/badnails/mfs-ledger/internal/core/domain"
	portsrepo "github.com/badnails/mfs-ledger/internal/core/ports/repositories"
	"github.com/badnails/mfs-ledger/internal/dto"
	"github.com/badnails/mfs-ledger/internal/middleware"
	"github.com/badnails/mfs-ledger/internal/platform/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FloatService implements the agent float top-up workflow.
type FloatService struct {
	floatRepo   portsrepo.FloatRequestRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	publisher   *events.Publisher
}

func NewFloatService(floatRepo portsrepo.FloatRequestRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, publisher *events.Publisher) *FloatService {
	return &FloatService{
		floatRepo:   floatRepo,
		accountRepo: accountRepo,
		publisher:   publisher,
	}
}

// SubmitFloatRequest records a PENDING top-up request for the calling agent.
func (s *FloatService) SubmitFloatRequest(ctx context.Context, agentAccountID string, req dto.SubmitFloatRequest) (*domain.FloatRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if len(req.Document) == 0 {
		return nil, fmt.Errorf("%w: supporting document is required", apperrors.ErrValidation)
	}

	agent, err := s.accountRepo.FindAccountByID(ctx, agentAccountID)
	if err != nil {
		return nil, err
	}
	if err := requireAccountType(*agent, domain.Agent); err != nil {
		return nil, err
	}
	if !agent.CanTransact() {
		return nil, fmt.Errorf("%w: account %s is %s", apperrors.ErrForbidden, agentAccountID, agent.Status)
	}

	now := time.Now()
	request := domain.FloatRequest{
		RequestID:    uuid.NewString(),
		AccountID:    agentAccountID,
		Amount:       req.Amount,
		Status:       domain.FloatPending,
		RequestDate:  now,
		Document:     req.Document,
		DocumentMime: req.DocumentMime,
		DocumentName: req.DocumentName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     agentAccountID,
			LastUpdatedAt: now,
			LastUpdatedBy: agentAccountID,
		},
	}

	if err := s.floatRepo.SaveFloatRequest(ctx, request); err != nil {
		logger.Error("Failed to save float request", slog.String("error", err.Error()), slog.String("request_id", request.RequestID))
		return nil, err
	}

	logger.Info("Float request submitted",
		slog.String("request_id", request.RequestID),
		slog.String("agent", agentAccountID),
		slog.String("amount", req.Amount.StringFixed(2)))
	return &request, nil
}

// ProcessFloatRequest approves or rejects a PENDING request as an admin.
// Approval mints the requested amount atomically with the status change; the
// repository's guarded update makes the decision single-shot under concurrency.
func (s *FloatService) ProcessFloatRequest(ctx context.Context, requestID string, actingAdminID string, decision dto.FloatDecision) (*domain.FloatRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, actingAdminID); err != nil {
		return nil, err
	}

	request, err := s.floatRepo.FindFloatRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, fmt.Errorf("%w: float request %s is %s", apperrors.ErrAlreadyProcessed, requestID, request.Status)
	}

	now := time.Now()
	switch decision {
	case dto.FloatApprove:
		completedAt := now
		mint := domain.Transaction{
			TransactionID:        uuid.NewString(),
			TransactionType:      domain.FloatTopup,
			SourceAccountID:      nil,
			DestinationAccountID: request.AccountID,
			SubAmount:            request.Amount,
			FeesAmount:           decimal.Zero,
			TotalAmount:          request.Amount,
			Status:               domain.Completed,
			Reference:            requestID,
			Notes:                "float top-up for request " + requestID,
			InitiatedAt:          now,
			CompletedAt:          &completedAt,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actingAdminID,
				LastUpdatedAt: now,
				LastUpdatedBy: actingAdminID,
			},
		}
		change := domain.NewBalanceChange(request.AccountID, request.Amount)
		if err := s.floatRepo.ApproveFloatRequestWithMint(ctx, requestID, actingAdminID, now, mint, change); err != nil {
			if !errors.Is(err, apperrors.ErrAlreadyProcessed) {
				logger.Error("Failed to approve float request", slog.String("error", err.Error()), slog.String("request_id", requestID))
			}
			return nil, err
		}
		logger.Info("Float request approved",
			slog.String("request_id", requestID),
			slog.String("agent", request.AccountID),
			slog.String("amount", request.Amount.StringFixed(2)),
			slog.String("admin", actingAdminID))
		if pubErr := s.publisher.PublishTransaction(ctx, &mint); pubErr != nil {
			logger.Warn("Failed to publish float top-up event", slog.String("error", pubErr.Error()), slog.String("transaction_id", mint.TransactionID))
		}

	case dto.FloatReject:
		if err := s.floatRepo.RejectFloatRequest(ctx, requestID, actingAdminID, now); err != nil {
			if !errors.Is(err, apperrors.ErrAlreadyProcessed) {
				logger.Error("Failed to reject float request", slog.String("error", err.Error()), slog.String("request_id", requestID))
			}
			return nil, err
		}
		logger.Info("Float request rejected", slog.String("request_id", requestID), slog.String("admin", actingAdminID))

	default:
		return nil, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, decision)
	}

	return s.floatRepo.FindFloatRequestByID(ctx, requestID)
}

// GetFloatRequestByID retrieves a request visible to the caller (owner or admin).
func (s *FloatService) GetFloatRequestByID(ctx context.Context, actingAccountID string, requestID string) (*domain.FloatRequest, error) {
	request, err := s.floatRepo.FindFloatRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.AccountID == actingAccountID {
		return request, nil
	}

	acting, err := s.accountRepo.FindAccountByID(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}
	if !acting.IsAdmin() {
		return nil, fmt.Errorf("%w: float request %s", apperrors.ErrForbidden, requestID)
	}
	return request, nil
}

// ListFloatRequests lists the caller's requests; admin callers see all accounts'.
func (s *FloatService) ListFloatRequests(ctx context.Context, actingAccountID string, params dto.ListFloatRequestsParams) (*dto.ListFloatRequestsResponse, error) {
	acting, err := s.accountRepo.FindAccountByID(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}

	var accountID *string
	if !acting.IsAdmin() {
		id := actingAccountID
		accountID = &id
	}

	requests, nextToken, err := s.floatRepo.ListFloatRequests(ctx, accountID, params.Status, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list float requests", slog.String("error", err.Error()))
		return nil, err
	}
	resp := dto.ToListFloatRequestsResponse(requests, nextToken)
	return &resp, nil
}

func (s *FloatService) requireAdmin(ctx context.Context, actingAccountID string) error {
	acting, err := s.accountRepo.FindAccountByID(ctx, actingAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: acting account %s not found", apperrors.ErrForbidden, actingAccountID)
		}
		return err
	}
	if !acting.IsAdmin() {
		return fmt.Errorf("%w: account %s is not an admin", apperrors.ErrForbidden, actingAccountID)
	}
	return nil
}
