package services

import (
	"context"
	"time"

	"github.com/badnails/mfs-ledger/internal/core/domain"
)

// TokenSvcFacade issues JWT access tokens for authenticated accounts.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed token whose subject is the account id.
	GenerateAccessToken(ctx context.Context, account *domain.Account) (string, time.Time, error)
}
