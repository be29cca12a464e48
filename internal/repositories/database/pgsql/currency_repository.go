package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrack-app/fintrack_backend/internal/models"
	"github.com/fintrack-app/fintrack_backend/internal/utils/mapping"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

func newPgxCurrencyRepository(db *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

const currencyColumns = `currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	query := `
		INSERT INTO currencies (currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		currency.CurrencyCode,
		currency.Symbol,
		currency.Name,
		currency.Precision,
		currency.CreatedAt,
		currency.CreatedBy,
		currency.LastUpdatedAt,
		currency.LastUpdatedBy,
	)
	if err != nil {
		if isPgErrorCode(err, pgUniqueViolation) {
			return fmt.Errorf("currency %s: %w", currency.CurrencyCode, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save currency: %w", err)
	}
	return nil
}

func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_code = $1;`
	var m models.Currency
	err := r.Pool.QueryRow(ctx, query, code).Scan(
		&m.CurrencyCode,
		&m.Symbol,
		&m.Name,
		&m.Precision,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", code, err)
	}
	c := mapping.ToDomainCurrency(m)
	return &c, nil
}

func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY currency_code ASC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies := []models.Currency{}
	for rows.Next() {
		var m models.Currency
		err := rows.Scan(
			&m.CurrencyCode,
			&m.Symbol,
			&m.Name,
			&m.Precision,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		modelCurrencies = append(modelCurrencies, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", rows.Err())
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}
