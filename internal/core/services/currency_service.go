package services

import (
	"context"
	"fmt"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
)

// currencyService exposes the supported currency set.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// GetCurrencyByCode retrieves a specific currency.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find currency %s: %w", code, err)
	}
	return currency, nil
}

// ListCurrencies retrieves all supported currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}
