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
	"github.com/badnails/mfs-ledger/internal/utils"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// RegisterAccount opens a new account with zero balances and UNVERIFIED status.
// The caller picks the account id; a collision fails with ErrDuplicate. ADMIN
// accounts cannot be opened through this path.
func (s *AccountService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.AccountType == domain.Admin {
		return nil, fmt.Errorf("%w: admin accounts cannot self-register", apperrors.ErrForbidden)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(500, "failed to hash password", err)
	}

	now := time.Now()
	account := domain.Account{
		AccountID:        req.AccountID,
		AccountType:      req.AccountType,
		DisplayName:      req.DisplayName,
		AvailableBalance: decimal.Zero,
		CurrentBalance:   decimal.Zero,
		Status:           domain.Unverified,
		PasswordHash:     hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.AccountID,
			LastUpdatedAt: now,
			LastUpdatedBy: req.AccountID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	logger.Info("Account registered", slog.String("account_id", account.AccountID), slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

// Authenticate verifies credentials. Unknown account and wrong password both
// come back as ErrForbidden so callers cannot probe for account existence.
func (s *AccountService) Authenticate(ctx context.Context, accountID string, password string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		logger.Error("Failed to find account during authentication", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		logger.Warn("Failed login attempt", slog.String("account_id", accountID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}

	return account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID in repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves a paginated account listing. Admin only.
func (s *AccountService) ListAccounts(ctx context.Context, actingAccountID string, limit int, offset int) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, actingAccountID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts from repository", slog.String("error", err.Error()), slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccountStatus transitions an account's lifecycle status. Admin only.
// Accounts are never deleted; suspension is the strongest action available.
func (s *AccountService) UpdateAccountStatus(ctx context.Context, actingAccountID string, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, actingAccountID); err != nil {
		return nil, err
	}

	switch status {
	case domain.Unverified, domain.Active, domain.Suspended:
	default:
		return nil, fmt.Errorf("%w: unknown account status %q", apperrors.ErrValidation, status)
	}

	now := time.Now()
	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, status, actingAccountID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to update account status", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	logger.Info("Account status updated",
		slog.String("account_id", accountID),
		slog.String("status", string(status)),
		slog.String("updated_by", actingAccountID))

	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// requireAdmin resolves the acting account and fails with ErrForbidden unless
// it carries admin privilege.
func (s *AccountService) requireAdmin(ctx context.Context, actingAccountID string) error {
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
