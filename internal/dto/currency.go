package dto

import "github.com/fintrack-app/fintrack_backend/internal/core/domain"

// CurrencyResponse is the API representation of a currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
}

// ListCurrenciesResponse wraps all supported currencies.
type ListCurrenciesResponse struct {
	Currencies []CurrencyResponse `json:"currencies"`
}

// ToListCurrenciesResponse converts a slice of domain currencies.
func ToListCurrenciesResponse(currencies []domain.Currency) ListCurrenciesResponse {
	resp := ListCurrenciesResponse{Currencies: make([]CurrencyResponse, len(currencies))}
	for i, c := range currencies {
		resp.Currencies[i] = CurrencyResponse{
			CurrencyCode: c.CurrencyCode,
			Symbol:       c.Symbol,
			Name:         c.Name,
			Precision:    c.Precision,
		}
	}
	return resp
}
