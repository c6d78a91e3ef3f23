package services

import (
	"context"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/badnails/mfs-ledger/internal/dto"
)

// FloatSvcFacade is the agent float top-up workflow.
type FloatSvcFacade interface {
	// SubmitFloatRequest records a PENDING top-up request for the calling agent.
	SubmitFloatRequest(ctx context.Context, agentAccountID string, req dto.SubmitFloatRequest) (*domain.FloatRequest, error)

	// ProcessFloatRequest approves or rejects a PENDING request as an admin.
	// Approval mints the requested amount atomically with the status change.
	// A second attempt against a processed request fails with ErrAlreadyProcessed.
	ProcessFloatRequest(ctx context.Context, requestID string, actingAdminID string, decision dto.FloatDecision) (*domain.FloatRequest, error)

	// GetFloatRequestByID retrieves a request visible to the caller (owner or admin).
	GetFloatRequestByID(ctx context.Context, actingAccountID string, requestID string) (*domain.FloatRequest, error)

	// ListFloatRequests lists the caller's requests; admin callers see all.
	ListFloatRequests(ctx context.Context, actingAccountID string, params dto.ListFloatRequestsParams) (*dto.ListFloatRequestsResponse, error)
}
