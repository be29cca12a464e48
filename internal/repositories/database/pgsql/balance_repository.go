package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
)

type PgxBalanceRepository struct {
	BaseRepository
}

func newPgxBalanceRepository(db *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

// balanceFilterClause renders the shared filter predicates, appending bind
// arguments to args. The transactions table is aliased t, categories c.
func balanceFilterClause(filter domain.BalanceFilter, args *[]interface{}) string {
	clause := ""
	appendArg := func(v interface{}) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", len(*args))
	}

	if filter.CategoryID != "" {
		clause += ` AND t.category_id = ` + appendArg(filter.CategoryID)
	}
	if filter.Kind != "" {
		clause += ` AND c.kind = ` + appendArg(string(filter.Kind))
	}
	if filter.From != nil {
		clause += ` AND t.date >= ` + appendArg(*filter.From)
	}
	if filter.To != nil {
		clause += ` AND t.date <= ` + appendArg(*filter.To)
	}
	return clause
}

// SumTransactions sums signed amounts of the user's non-deleted transactions.
// COALESCE makes an empty ledger sum to zero; query errors are returned, never
// reported as a zero balance.
func (r *PgxBalanceRepository) SumTransactions(ctx context.Context, userID string, filter domain.BalanceFilter) (decimal.Decimal, error) {
	args := []interface{}{userID}
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN categories c ON c.category_id = t.category_id
		WHERE t.user_id = $1 AND t.deleted_at IS NULL
	` + balanceFilterClause(filter, &args) + `;`

	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", wrapStorageError(err))
	}
	return total, nil
}

func (r *PgxBalanceRepository) SumByCategory(ctx context.Context, userID string, filter domain.BalanceFilter) ([]domain.CategoryTotal, error) {
	args := []interface{}{userID}
	query := `
		SELECT t.category_id, c.name, c.kind, SUM(t.amount)
		FROM transactions t
		JOIN categories c ON c.category_id = t.category_id
		WHERE t.user_id = $1 AND t.deleted_at IS NULL
	` + balanceFilterClause(filter, &args) + `
		GROUP BY t.category_id, c.name, c.kind
		ORDER BY c.kind, c.name;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", wrapStorageError(err))
	}
	defer rows.Close()

	totals := []domain.CategoryTotal{}
	for rows.Next() {
		var t domain.CategoryTotal
		var kind string
		if err := rows.Scan(&t.CategoryID, &t.CategoryName, &kind, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total row: %w", err)
		}
		t.Kind = domain.CategoryKind(kind)
		totals = append(totals, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category total rows: %w", rows.Err())
	}

	return totals, nil
}
