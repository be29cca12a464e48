package repositories

import (
	"context"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a specific currency by its code.
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}
