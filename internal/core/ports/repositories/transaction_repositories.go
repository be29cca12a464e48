package repositories

import (
	"context"
	"time"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its ID, including soft-deleted ones.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByIdempotencyKey returns the transaction a user previously created
	// with the given key, or apperrors.ErrNotFound.
	FindTransactionByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated, filtered list of the user's non-deleted
	// transactions using token-based pagination, newest first.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, userID string, filter domain.BalanceFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// FindRevisionsByTransactionID returns the audit trail for a transaction, oldest first.
	FindRevisionsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionRevision, error)
}

// TransactionWriter defines write operations for transaction data.
// Every method is atomic: it either fully applies or leaves state unchanged.
// Implementations must serialize mutations per user (row lock or equivalent)
// so concurrent writes cannot produce lost updates.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	// Fails with apperrors.ErrDuplicate when the user's idempotency key was already used.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction applies the new state and records a revision preserving the old one.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, revision domain.TransactionRevision) error

	// MarkTransactionDeleted soft-deletes a transaction and records a revision.
	MarkTransactionDeleted(ctx context.Context, transactionID string, deletedBy string, deletedAt time.Time, revision domain.TransactionRevision) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
