package repositories

import (
	"context"
	"time"

	"github.com/badnails/mfs-ledger/internal/core/domain"
)

// FloatRequestReader defines read operations for float request data.
type FloatRequestReader interface {
	// FindFloatRequestByID retrieves a float request including its document blob.
	FindFloatRequestByID(ctx context.Context, requestID string) (*domain.FloatRequest, error)

	// ListFloatRequests retrieves a token-paginated page of requests, newest first,
	// optionally narrowed to one account and/or one status. Document blobs are not
	// populated on list reads.
	ListFloatRequests(ctx context.Context, accountID *string, status *domain.FloatRequestStatus, limit int, nextToken *string) ([]domain.FloatRequest, *string, error)
}

// FloatRequestWriter defines write operations for float request data.
type FloatRequestWriter interface {
	// SaveFloatRequest persists a new PENDING request with its supporting document.
	SaveFloatRequest(ctx context.Context, request domain.FloatRequest) error

	// ApproveFloatRequestWithMint transitions PENDING -> APPROVED and performs the
	// triggered mint (transaction insert plus balance credit) within one atomic unit
	// of work. Fails with ErrAlreadyProcessed if the request is no longer PENDING.
	ApproveFloatRequestWithMint(ctx context.Context, requestID string, adminID string, processedAt time.Time, mint domain.Transaction, change domain.BalanceChange) error

	// RejectFloatRequest transitions PENDING -> REJECTED. Status-only; fails with
	// ErrAlreadyProcessed if the request is no longer PENDING.
	RejectFloatRequest(ctx context.Context, requestID string, adminID string, processedAt time.Time) error
}

// FloatRequestRepositoryFacade combines all float request repository interfaces.
type FloatRequestRepositoryFacade interface {
	FloatRequestReader
	FloatRequestWriter
}

// FloatRequestRepositoryWithTx extends FloatRequestRepositoryFacade with transaction capabilities
type FloatRequestRepositoryWithTx interface {
	FloatRequestRepositoryFacade
	TransactionManager
}
