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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, transaction_type, source_account_id, destination_account_id, sub_amount, fees_amount, total_amount, status, reference, notes, reversal_of, initiated_at, completed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountLocker
}

// newPgxLedgerRepository creates a new repository for the transaction log and
// its atomic balance mutations.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountLocker) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

func scanTransactionRow(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionType,
		&m.SourceAccountID,
		&m.DestinationAccountID,
		&m.SubAmount,
		&m.FeesAmount,
		&m.TotalAmount,
		&m.Status,
		&m.Reference,
		&m.Notes,
		&m.ReversalOf,
		&m.InitiatedAt,
		&m.CompletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func insertTransactionTx(ctx context.Context, tx pgx.Tx, m models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.TransactionType,
		m.SourceAccountID,
		m.DestinationAccountID,
		m.SubAmount,
		m.FeesAmount,
		m.TotalAmount,
		m.Status,
		m.Reference,
		m.Notes,
		m.ReversalOf,
		m.InitiatedAt,
		m.CompletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

// lockAndApplyChanges locks the involved account rows, re-validates that no
// available balance goes negative, and applies the deltas. This is the single
// enforcement point for the balance-sufficiency invariant: the check and the
// write happen under the same row locks, inside the caller's transaction.
func (r *PgxLedgerRepository) lockAndApplyChanges(ctx context.Context, tx pgx.Tx, changes []domain.BalanceChange, updatedBy string, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}

	netAvailable := make(map[string]decimal.Decimal)
	accountIDs := make([]string, 0, len(changes))
	for _, change := range changes {
		if _, seen := netAvailable[change.AccountID]; !seen {
			accountIDs = append(accountIDs, change.AccountID)
		}
		netAvailable[change.AccountID] = netAvailable[change.AccountID].Add(change.Available)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	for accountID, delta := range netAvailable {
		projected := lockedAccounts[accountID].AvailableBalance.Add(delta)
		if projected.IsNegative() {
			return fmt.Errorf("%w: account %s short by %s", apperrors.ErrInsufficientFunds, accountID, projected.Neg().StringFixed(2))
		}
	}

	return r.accountRepo.ApplyBalanceChangesInTx(ctx, tx, changes, updatedBy, now)
}

// lockTransactionStatus locks a transaction row and returns its current status.
func lockTransactionStatus(ctx context.Context, tx pgx.Tx, transactionID string) (models.TransactionStatus, error) {
	var status models.TransactionStatus
	err := tx.QueryRow(ctx, `SELECT status FROM transactions WHERE transaction_id = $1 FOR UPDATE;`, transactionID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", apperrors.NewAppError(500, "failed to lock transaction "+transactionID, err)
	}
	return status, nil
}

// SaveCompletedTransaction inserts a COMPLETED transaction and applies its
// balance changes within a single database transaction.
func (r *PgxLedgerRepository) SaveCompletedTransaction(ctx context.Context, txn domain.Transaction, changes []domain.BalanceChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.lockAndApplyChanges(ctx, tx, changes, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}
	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SavePendingTransaction inserts a PENDING transaction row. No balances move.
func (r *PgxLedgerRepository) SavePendingTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// CompletePendingTransaction transitions PENDING -> COMPLETED and applies the
// balance changes atomically. The transaction row is locked first so a
// concurrent completion attempt observes the terminal status and aborts.
func (r *PgxLedgerRepository) CompletePendingTransaction(ctx context.Context, transactionID string, completedAt time.Time, updatedBy string, changes []domain.BalanceChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, err := lockTransactionStatus(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if status != models.Pending {
		return fmt.Errorf("%w: transaction %s is %s, expected PENDING", apperrors.ErrConflict, transactionID, status)
	}

	if err := r.lockAndApplyChanges(ctx, tx, changes, updatedBy, completedAt); err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET status = $2, completed_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND status = 'PENDING';
	`
	ct, err := tx.Exec(ctx, query, transactionID, models.Completed, completedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to complete transaction "+transactionID, err)
	}
	if ct.RowsAffected() == 0 {
		// The row was locked above; reaching here means the guard raced anyway.
		return fmt.Errorf("%w: transaction %s is no longer PENDING", apperrors.ErrConflict, transactionID)
	}

	return r.Commit(ctx, tx)
}

// FailPendingTransaction transitions PENDING -> FAILED. Status-only.
func (r *PgxLedgerRepository) FailPendingTransaction(ctx context.Context, transactionID string, completedAt time.Time, updatedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, err := lockTransactionStatus(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if status != models.Pending {
		return fmt.Errorf("%w: transaction %s is %s, expected PENDING", apperrors.ErrConflict, transactionID, status)
	}

	query := `
		UPDATE transactions
		SET status = $2, completed_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND status = 'PENDING';
	`
	if _, err := tx.Exec(ctx, query, transactionID, models.Failed, completedAt, updatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to fail transaction "+transactionID, err)
	}

	return r.Commit(ctx, tx)
}

// SaveReversal inserts a compensating REVERSAL transaction, applies its balance
// changes, and flips the original transaction COMPLETED -> REVERTED, all within
// one database transaction. The original row is locked first, so concurrent
// reversal attempts serialize and the loser fails with ErrAlreadyReverted.
func (r *PgxLedgerRepository) SaveReversal(ctx context.Context, reversal domain.Transaction, originalTransactionID string, changes []domain.BalanceChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, err := lockTransactionStatus(ctx, tx, originalTransactionID)
	if err != nil {
		return err
	}
	switch status {
	case models.Reverted:
		return fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyReverted, originalTransactionID)
	case models.Completed:
		// eligible
	default:
		return fmt.Errorf("%w: transaction %s is %s", apperrors.ErrNotCompleted, originalTransactionID, status)
	}

	if err := r.lockAndApplyChanges(ctx, tx, changes, reversal.CreatedBy, reversal.CreatedAt); err != nil {
		return err
	}
	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(reversal)); err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND status = 'COMPLETED';
	`
	ct, err := tx.Exec(ctx, query, originalTransactionID, models.Reverted, reversal.CreatedAt, reversal.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark transaction REVERTED "+originalTransactionID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyReverted, originalTransactionID)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction by its id.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// appendFilterClauses compiles the typed filter into parameterized WHERE
// clauses. Filters never reach the SQL text as interpolated strings.
func appendFilterClauses(filter domain.TransactionFilter, clauses []string, args []interface{}) ([]string, []interface{}) {
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		p := strconv.Itoa(len(args))
		clauses = append(clauses, `(source_account_id = $`+p+` OR destination_account_id = $`+p+`)`)
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, `status = $`+strconv.Itoa(len(args)))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		clauses = append(clauses, `transaction_type = $`+strconv.Itoa(len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, `initiated_at >= $`+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, `initiated_at < $`+strconv.Itoa(len(args)))
	}
	return clauses, args
}

// ListTransactions retrieves a filtered, token-paginated page, newest first.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine if there is a next page.
	fetchLimit := limit + 1

	clauses := []string{}
	args := []interface{}{}
	clauses, args = appendFilterClauses(filter, clauses, args)

	if nextToken != nil && *nextToken != "" {
		lastInitiatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastInitiatedAt)
		pTime := strconv.Itoa(len(args))
		args = append(args, lastID)
		pID := strconv.Itoa(len(args))
		// Tuple comparison keeps the cursor stable under equal timestamps.
		clauses = append(clauses, `(initiated_at, transaction_id) < ($`+pTime+`, $`+pID+`)`)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY initiated_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list transactions", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransactionRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		transactions = append(transactions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var newNextToken *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[len(transactions)-1]
		token := pagination.EncodeToken(last.InitiatedAt, last.TransactionID)
		newNextToken = &token
	}

	return mapping.ToDomainTransactionSlice(transactions), newNextToken, nil
}

// SummarizeDailyVolume aggregates completed transaction volume per day.
func (r *PgxLedgerRepository) SummarizeDailyVolume(ctx context.Context, filter domain.TransactionFilter) ([]domain.DailyVolumeRow, error) {
	clauses := []string{`status = 'COMPLETED'`}
	args := []interface{}{}
	clauses, args = appendFilterClauses(filter, clauses, args)

	query := `
		SELECT date_trunc('day', initiated_at) AS day,
		       COUNT(*) AS txn_count,
		       COALESCE(SUM(sub_amount), 0) AS total_amount,
		       COALESCE(SUM(fees_amount), 0) AS total_fees
		FROM transactions`
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` GROUP BY 1 ORDER BY 1 DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to summarize daily volume", err)
	}
	defer rows.Close()

	summary := []domain.DailyVolumeRow{}
	for rows.Next() {
		var row domain.DailyVolumeRow
		if err := rows.Scan(&row.Day, &row.Count, &row.TotalAmount, &row.TotalFees); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan daily volume row", err)
		}
		summary = append(summary, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating daily volume rows", err)
	}

	return summary, nil
}
