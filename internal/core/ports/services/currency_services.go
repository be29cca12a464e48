package services

import (
	"context"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
)

// CurrencySvcFacade exposes the supported currency set.
type CurrencySvcFacade interface {
	// GetCurrencyByCode retrieves a specific currency.
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
