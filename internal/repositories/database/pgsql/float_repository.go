package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/badnails/mfs-ledger/internal/apperrors"
	"github.com/badnails/mfs-ledger/internal/core/domain"
	portsrepo "github.com/badnails/mfs-ledger/internal/core/ports/repositories"
	"github.com/badnails/mfs-ledger/internal/models"
	"github.com/badnails/mfs-ledger/internal/utils/mapping"
	"github.com/badnails/mfs-ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const floatRequestColumns = `request_id, account_id, amount, status, request_date, processed_date, processed_by, document, document_mime, document_name, created_at, created_by, last_updated_at, last_updated_by`

// floatRequestListColumns substitutes NULL for the document blob on list reads.
const floatRequestListColumns = `request_id, account_id, amount, status, request_date, processed_date, processed_by, NULL, document_mime, document_name, created_at, created_by, last_updated_at, last_updated_by`

type PgxFloatRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountLocker
}

// newPgxFloatRepository creates a new repository for agent float requests.
func newPgxFloatRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountLocker) *PgxFloatRepository {
	return &PgxFloatRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxFloatRepository implements portsrepo.FloatRequestRepositoryWithTx
var _ portsrepo.FloatRequestRepositoryWithTx = (*PgxFloatRepository)(nil)

func scanFloatRequestRow(row pgx.Row) (models.FloatRequest, error) {
	var m models.FloatRequest
	err := row.Scan(
		&m.RequestID,
		&m.AccountID,
		&m.Amount,
		&m.Status,
		&m.RequestDate,
		&m.ProcessedDate,
		&m.ProcessedBy,
		&m.Document,
		&m.DocumentMime,
		&m.DocumentName,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveFloatRequest persists a new PENDING request with its supporting document.
func (r *PgxFloatRepository) SaveFloatRequest(ctx context.Context, request domain.FloatRequest) error {
	m := mapping.ToModelFloatRequest(request)
	query := `
		INSERT INTO float_requests (` + floatRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.AccountID,
		m.Amount,
		m.Status,
		m.RequestDate,
		m.ProcessedDate,
		m.ProcessedBy,
		m.Document,
		m.DocumentMime,
		m.DocumentName,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: float request %s", apperrors.ErrDuplicate, request.RequestID)
		}
		return apperrors.NewAppError(500, "failed to save float request "+request.RequestID, err)
	}
	return nil
}

// FindFloatRequestByID retrieves a float request including its document blob.
func (r *PgxFloatRepository) FindFloatRequestByID(ctx context.Context, requestID string) (*domain.FloatRequest, error) {
	query := `SELECT ` + floatRequestColumns + ` FROM float_requests WHERE request_id = $1;`
	m, err := scanFloatRequestRow(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find float request by ID "+requestID, err)
	}
	request := mapping.ToDomainFloatRequest(m)
	return &request, nil
}

// ListFloatRequests retrieves a token-paginated page of requests, newest first.
// Document blobs are not populated.
func (r *PgxFloatRepository) ListFloatRequests(ctx context.Context, accountID *string, status *domain.FloatRequestStatus, limit int, nextToken *string) ([]domain.FloatRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	clauses := []string{}
	args := []interface{}{}
	if accountID != nil {
		args = append(args, *accountID)
		clauses = append(clauses, `account_id = $`+strconv.Itoa(len(args)))
	}
	if status != nil {
		args = append(args, string(*status))
		clauses = append(clauses, `status = $`+strconv.Itoa(len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		lastRequestDate, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastRequestDate)
		pDate := strconv.Itoa(len(args))
		args = append(args, lastID)
		pID := strconv.Itoa(len(args))
		clauses = append(clauses, `(request_date, request_id) < ($`+pDate+`, $`+pID+`)`)
	}

	query := `SELECT ` + floatRequestListColumns + ` FROM float_requests`
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY request_date DESC, request_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list float requests", err)
	}
	defer rows.Close()

	requests := []models.FloatRequest{}
	for rows.Next() {
		m, err := scanFloatRequestRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan float request row", err)
		}
		requests = append(requests, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating float request rows", err)
	}

	var newNextToken *string
	if len(requests) > limit {
		requests = requests[:limit]
		last := requests[len(requests)-1]
		token := pagination.EncodeToken(last.RequestDate, last.RequestID)
		newNextToken = &token
	}

	return mapping.ToDomainFloatRequestSlice(requests), newNextToken, nil
}

// markFloatRequestProcessed performs the guarded PENDING -> terminal transition.
// Zero rows affected means another admin processed the request first.
func markFloatRequestProcessed(ctx context.Context, tx pgx.Tx, requestID string, status domain.FloatRequestStatus, adminID string, processedAt time.Time) error {
	query := `
		UPDATE float_requests
		SET status = $2, processed_date = $3, processed_by = $4, last_updated_at = $3, last_updated_by = $4
		WHERE request_id = $1 AND status = 'PENDING';
	`
	ct, err := tx.Exec(ctx, query, requestID, string(status), processedAt, adminID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update float request "+requestID, err)
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if scanErr := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM float_requests WHERE request_id = $1);`, requestID).Scan(&exists); scanErr != nil {
			return apperrors.NewAppError(500, "failed to check float request "+requestID, scanErr)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: float request %s", apperrors.ErrAlreadyProcessed, requestID)
	}
	return nil
}

// ApproveFloatRequestWithMint transitions PENDING -> APPROVED and performs the
// triggered mint within one database transaction. The guarded status update
// runs first so a concurrent approval cannot mint twice.
func (r *PgxFloatRepository) ApproveFloatRequestWithMint(ctx context.Context, requestID string, adminID string, processedAt time.Time, mint domain.Transaction, change domain.BalanceChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := markFloatRequestProcessed(ctx, tx, requestID, domain.FloatApproved, adminID, processedAt); err != nil {
		return err
	}

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{change.AccountID}); err != nil {
		return err
	}
	if err := r.accountRepo.ApplyBalanceChangesInTx(ctx, tx, []domain.BalanceChange{change}, adminID, processedAt); err != nil {
		return err
	}
	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(mint)); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RejectFloatRequest transitions PENDING -> REJECTED. Status-only.
func (r *PgxFloatRepository) RejectFloatRequest(ctx context.Context, requestID string, adminID string, processedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := markFloatRequestProcessed(ctx, tx, requestID, domain.FloatRejected, adminID, processedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
