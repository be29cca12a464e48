package repositories

import (
	"context"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceRepository provides aggregation reads over the ledger.
// Soft-deleted transactions are always excluded.
type BalanceRepository interface {
	// SumTransactions returns the sum of signed amounts of the user's non-deleted
	// transactions matching the filter. An empty ledger sums to zero; storage
	// faults are returned as errors, never as a zero balance.
	SumTransactions(ctx context.Context, userID string, filter domain.BalanceFilter) (decimal.Decimal, error)

	// SumByCategory returns per-category totals for the user's non-deleted
	// transactions matching the filter.
	SumByCategory(ctx context.Context, userID string, filter domain.BalanceFilter) ([]domain.CategoryTotal, error)
}

// BalanceRepositoryFacade is the facade consumed by the balance service.
type BalanceRepositoryFacade interface {
	BalanceRepository
}
