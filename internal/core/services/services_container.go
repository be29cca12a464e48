package services

import (
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/pkg/config"
)

// NewServiceProvider wires all services with their dependencies.
func NewServiceProvider(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceProvider {
	provider := &portssvc.ServiceProvider{}

	guard := NewAccessGuard()

	provider.CurrencySvc = NewCurrencyService(repos.CurrencyRepo)
	provider.UserSvc = NewUserService(repos.UserRepo, guard)
	provider.AuthSvc = NewAuthService(cfg, repos.UserRepo, provider.UserSvc)
	provider.CategorySvc = NewCategoryService(repos.CategoryRepo, guard)

	// The balance service doubles as the invalidator the transaction service
	// calls after every committed mutation.
	balanceSvc := NewBalanceService(repos.BalanceRepo, cfg.BalanceCacheSize)
	provider.BalanceSvc = balanceSvc

	provider.TransactionSvc = NewTransactionService(
		repos.TransactionRepo,
		repos.CategoryRepo,
		repos.CurrencyRepo,
		guard,
		balanceSvc,
		cfg.FutureDateTolerance,
	)

	return provider
}
