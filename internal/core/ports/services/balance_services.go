package services

import (
	"context"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceReaderSvc computes derived balances over the ledger.
type BalanceReaderSvc interface {
	// GetBalance returns the sum of signed amounts of the user's non-deleted
	// transactions matching the filter.
	GetBalance(ctx context.Context, requestingUserID string, filter domain.BalanceFilter) (decimal.Decimal, error)

	// GetSummary returns the dashboard summary: net balance, income/expense
	// totals, and a per-category breakdown.
	GetSummary(ctx context.Context, requestingUserID string, filter domain.BalanceFilter) (*domain.BalanceSummary, error)
}

// BalanceInvalidator is the write-side hook: the transaction service calls it
// synchronously after every committed mutation so a caller can never read a
// balance older than its own last write.
type BalanceInvalidator interface {
	// InvalidateUser drops all cached balances for the user.
	InvalidateUser(userID string)
}

// BalanceSvcFacade combines balance reads with cache invalidation.
type BalanceSvcFacade interface {
	BalanceReaderSvc
	BalanceInvalidator
}
