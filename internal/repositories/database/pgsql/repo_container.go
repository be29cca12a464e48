package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the postgres-backed repository set.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:        newPgxUserRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		BalanceRepo:     newPgxBalanceRepository(dbPool),
		CurrencyRepo:    newPgxCurrencyRepository(dbPool),
	}
}
