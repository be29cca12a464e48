package services

import (
	"context"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction the user owns.
	GetTransactionByID(ctx context.Context, transactionID string, requestingUserID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, paginated list of the user's transactions.
	ListTransactions(ctx context.Context, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// GetRevisions returns the audit trail of a transaction the user owns.
	GetRevisions(ctx context.Context, transactionID string, requestingUserID string) ([]domain.TransactionRevision, error)
}

// TransactionWriterSvc defines write operations for transaction data.
// All mutations are atomic against the ledger store and invalidate the
// caller's cached balances before returning.
type TransactionWriterSvc interface {
	// CreateTransaction validates and persists a new transaction.
	// A repeated idempotency key returns the previously created transaction.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, requestingUserID string) (*domain.Transaction, error)

	// UpdateTransaction applies partial changes, recording an audit revision.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error)

	// DeleteTransaction soft-deletes a transaction, recording an audit revision.
	DeleteTransaction(ctx context.Context, transactionID string, requestingUserID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
