package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrack-app/fintrack_backend/internal/models"
	"github.com/fintrack-app/fintrack_backend/internal/utils/mapping"
	"github.com/fintrack-app/fintrack_backend/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, category_id, amount, currency_code, date, note, idempotency_key, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.CategoryID,
		&m.Amount,
		&m.CurrencyCode,
		&m.Date,
		&m.Note,
		&m.IdempotencyKey,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// lockUserRow serializes ledger mutations per user. Every writer takes the
// owning user's row lock first, so two concurrent mutations for the same user
// apply one after the other while different users proceed in parallel.
func lockUserRow(ctx context.Context, tx pgx.Tx, userID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT user_id FROM users WHERE user_id = $1 FOR UPDATE;`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock user row: %w", wrapStorageError(err))
	}
	return nil
}

// lockCategoryActive takes a share lock on the category row and verifies it is
// still active. The share lock conflicts with DeactivateCategory's update, so
// whichever of the two commits second observes the other's effect: a write
// cannot attach to a category that a concurrent deactivation is removing.
func lockCategoryActive(ctx context.Context, tx pgx.Tx, categoryID string) error {
	var isActive bool
	err := tx.QueryRow(ctx, `SELECT is_active FROM categories WHERE category_id = $1 FOR SHARE;`, categoryID).Scan(&isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("category %s: %w", categoryID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock category row: %w", wrapStorageError(err))
	}
	if !isActive {
		return fmt.Errorf("category %s is inactive: %w", categoryID, apperrors.ErrConstraint)
	}
	return nil
}

func insertRevision(ctx context.Context, tx pgx.Tx, revision domain.TransactionRevision) error {
	m := mapping.ToModelTransactionRevision(revision)
	query := `
		INSERT INTO transaction_revisions (revision_id, transaction_id, kind, old_amount, new_amount, old_category_id, new_category_id, old_date, new_date, old_note, new_note, changed_at, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.RevisionID,
		m.TransactionID,
		m.Kind,
		m.OldAmount,
		m.NewAmount,
		m.OldCategoryID,
		m.NewCategoryID,
		m.OldDate,
		m.NewDate,
		m.OldNote,
		m.NewNote,
		m.ChangedAt,
		m.ChangedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert revision: %w", err)
	}
	return nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockUserRow(ctx, tx, txn.UserID); err != nil {
		return err
	}
	if err := lockCategoryActive(ctx, tx, txn.CategoryID); err != nil {
		return err
	}

	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, user_id, category_id, amount, currency_code, date, note, idempotency_key, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.CategoryID,
		m.Amount,
		m.CurrencyCode,
		m.Date,
		m.Note,
		m.IdempotencyKey,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isPgErrorCode(err, pgUniqueViolation) {
			return fmt.Errorf("idempotency key already used: %w", apperrors.ErrDuplicate)
		}
		if isPgErrorCode(err, pgForeignKeyViolation) {
			return fmt.Errorf("transaction references a missing row: %w", apperrors.ErrConstraint)
		}
		return fmt.Errorf("failed to save transaction: %w", wrapStorageError(err))
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, revision domain.TransactionRevision) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockUserRow(ctx, tx, txn.UserID); err != nil {
		return err
	}
	if err := lockCategoryActive(ctx, tx, txn.CategoryID); err != nil {
		return err
	}

	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET category_id = $1, amount = $2, date = $3, note = $4, last_updated_at = $5, last_updated_by = $6
		WHERE transaction_id = $7 AND deleted_at IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.CategoryID,
		m.Amount,
		m.Date,
		m.Note,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.TransactionID,
	)
	if err != nil {
		if isPgErrorCode(err, pgForeignKeyViolation) {
			return fmt.Errorf("transaction references a missing row: %w", apperrors.ErrConstraint)
		}
		return fmt.Errorf("failed to update transaction: %w", wrapStorageError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found or already deleted: %w", apperrors.ErrNotFound)
	}

	if err := insertRevision(ctx, tx, revision); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) MarkTransactionDeleted(ctx context.Context, transactionID string, deletedBy string, deletedAt time.Time, revision domain.TransactionRevision) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// The owner is looked up first so the lock is taken on the right user.
	var userID string
	err = tx.QueryRow(ctx, `SELECT user_id FROM transactions WHERE transaction_id = $1;`, transactionID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to find transaction owner: %w", err)
	}
	if err := lockUserRow(ctx, tx, userID); err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE transaction_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query, deletedAt, deletedBy, transactionID)
	if err != nil {
		return fmt.Errorf("failed to mark transaction as deleted: %w", wrapStorageError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found or already deleted: %w", apperrors.ErrNotFound)
	}

	if err := insertRevision(ctx, tx, revision); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID returns the transaction including soft-deleted ones; the
// service layer decides whether a deleted row is visible.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	t := mapping.ToDomainTransaction(*m)
	return &t, nil
}

func (r *PgxTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND idempotency_key = $2;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, userID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by idempotency key: %w", err)
	}
	t := mapping.ToDomainTransaction(*m)
	return &t, nil
}

// ListTransactions pages through the user's non-deleted transactions newest
// first, keyed on (date, created_at).
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.BalanceFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1 AND t.deleted_at IS NULL
	`
	args := []interface{}{userID}

	appendArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CategoryID != "" {
		query += ` AND t.category_id = ` + appendArg(filter.CategoryID)
	}
	if filter.Kind != "" {
		query += ` AND t.category_id IN (SELECT category_id FROM categories WHERE kind = ` + appendArg(string(filter.Kind)) + `)`
	}
	if filter.From != nil {
		query += ` AND t.date >= ` + appendArg(*filter.From)
	}
	if filter.To != nil {
		query += ` AND t.date <= ` + appendArg(*filter.To)
	}

	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (t.date, t.created_at) < (` + appendArg(cursorDate) + `, ` + appendArg(cursorCreatedAt) + `)`
	}

	// Fetch one extra row to know whether another page exists.
	query += ` ORDER BY t.date DESC, t.created_at DESC LIMIT ` + appendArg(limit+1) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, *m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	var newNextToken *string
	if len(modelTxns) > limit {
		modelTxns = modelTxns[:limit]
		last := modelTxns[len(modelTxns)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		newNextToken = &token
	}

	return mapping.ToDomainTransactionSlice(modelTxns), newNextToken, nil
}

func (r *PgxTransactionRepository) FindRevisionsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionRevision, error) {
	query := `
		SELECT revision_id, transaction_id, kind, old_amount, new_amount, old_category_id, new_category_id, old_date, new_date, old_note, new_note, changed_at, changed_by
		FROM transaction_revisions
		WHERE transaction_id = $1
		ORDER BY changed_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer rows.Close()

	modelRevisions := []models.TransactionRevision{}
	for rows.Next() {
		var m models.TransactionRevision
		err := rows.Scan(
			&m.RevisionID,
			&m.TransactionID,
			&m.Kind,
			&m.OldAmount,
			&m.NewAmount,
			&m.OldCategoryID,
			&m.NewCategoryID,
			&m.OldDate,
			&m.NewDate,
			&m.OldNote,
			&m.NewNote,
			&m.ChangedAt,
			&m.ChangedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revision row: %w", err)
		}
		modelRevisions = append(modelRevisions, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating revision rows: %w", rows.Err())
	}

	return mapping.ToDomainTransactionRevisionSlice(modelRevisions), nil
}
