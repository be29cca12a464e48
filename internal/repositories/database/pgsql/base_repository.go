package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
)

// pg error codes we branch on
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction. Failing to acquire a connection is
// an infrastructure fault, not a data error, so it classifies as storage
// unavailable and the caller may retry with the same idempotency key.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return tx, nil
}

// Commit commits a transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", wrapStorageError(err))
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// isPgErrorCode reports whether err is a PostgreSQL error with the given code.
func isPgErrorCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// wrapStorageError classifies transient infrastructure faults as
// apperrors.ErrStorageUnavailable. SQL-level errors (constraint violations,
// bad statements) pass through unchanged for the caller to classify.
func wrapStorageError(err error) error {
	if isTransientStorageError(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return err
}

// isTransientStorageError reports whether err is a connection-level or
// resource fault that a retry may clear.
func isTransientStorageError(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		// Class 08: connection exception, 53: insufficient resources,
		// 57: operator intervention (e.g. admin shutdown), 58: system error.
		switch pgErr.Code[:2] {
		case "08", "53", "57", "58":
			return true
		}
	}
	return false
}
