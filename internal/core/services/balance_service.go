package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
)

const defaultBalanceCacheSize = 4096

// balanceService derives balances from the ledger. Results are cached per
// (user, filter); invalidation works by bumping a per-user generation counter
// that is part of every cache key, so a mutation makes all of the user's
// entries unreachable at once. The generation bump happens synchronously in
// the mutating call, which gives the mutating caller read-your-own-writes.
// Stale entries simply age out of the LRU.
type balanceService struct {
	BaseService
	balanceRepo portsrepo.BalanceRepositoryFacade

	cache *lru.Cache[string, decimal.Decimal]

	mu          sync.RWMutex
	generations map[string]uint64
}

// NewBalanceService creates a new BalanceService. cacheSize <= 0 selects the default.
func NewBalanceService(balanceRepo portsrepo.BalanceRepositoryFacade, cacheSize int) portssvc.BalanceSvcFacade {
	if cacheSize <= 0 {
		cacheSize = defaultBalanceCacheSize
	}
	// lru.New only errors on non-positive size, which is guarded above.
	cache, _ := lru.New[string, decimal.Decimal](cacheSize)
	return &balanceService{
		balanceRepo: balanceRepo,
		cache:       cache,
		generations: make(map[string]uint64),
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

func (s *balanceService) generation(userID string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generations[userID]
}

func (s *balanceService) cacheKey(userID string, filter domain.BalanceFilter) string {
	return fmt.Sprintf("%s|%d|%s", userID, s.generation(userID), filter.Key())
}

// InvalidateUser drops all cached balances for the user.
// Called synchronously by the transaction service after every committed mutation.
func (s *balanceService) InvalidateUser(userID string) {
	s.mu.Lock()
	s.generations[userID]++
	s.mu.Unlock()
}

// GetBalance returns the sum of signed amounts of the user's non-deleted
// transactions matching the filter. Storage errors are propagated, never
// masked as a zero balance.
func (s *balanceService) GetBalance(ctx context.Context, requestingUserID string, filter domain.BalanceFilter) (decimal.Decimal, error) {
	key := s.cacheKey(requestingUserID, filter)
	if cached, ok := s.cache.Get(key); ok {
		s.LogDebug(ctx, "Balance served from cache", slog.String("user_id", requestingUserID))
		return cached, nil
	}

	balance, err := s.balanceRepo.SumTransactions(ctx, requestingUserID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance", slog.String("user_id", requestingUserID))
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}

	// Re-check the generation: if a mutation landed while we were summing, the
	// computed value may predate it and must not be cached under the new key.
	if s.cacheKey(requestingUserID, filter) == key {
		s.cache.Add(key, balance)
	}

	return balance, nil
}

// GetSummary returns the dashboard summary: net balance, income and expense
// totals, and a per-category breakdown for the filtered period.
func (s *balanceService) GetSummary(ctx context.Context, requestingUserID string, filter domain.BalanceFilter) (*domain.BalanceSummary, error) {
	rows, err := s.balanceRepo.SumByCategory(ctx, requestingUserID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute category totals", slog.String("user_id", requestingUserID))
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}

	balance := decimal.Zero
	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, row := range rows {
		balance = balance.Add(row.Total)
		if row.Kind == domain.Income {
			totalIncome = totalIncome.Add(row.Total)
		} else {
			totalExpense = totalExpense.Add(row.Total.Abs())
		}
	}

	summary := &domain.BalanceSummary{
		Balance:       balance,
		TotalIncome:   totalIncome,
		TotalExpense:  totalExpense,
		ByCategory:    rows,
		From:          filter.From,
		To:            filter.To,
		ComputedAtUTC: time.Now().UTC(),
	}

	s.LogInfo(ctx, "Summary computed",
		slog.String("user_id", requestingUserID),
		slog.Int("category_count", len(rows)))
	return summary, nil
}
