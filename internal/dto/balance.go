package dto

import (
	"time"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceParams holds query parameters for a balance read.
type BalanceParams struct {
	CategoryID string
	Kind       domain.CategoryKind
	From       *time.Time
	To         *time.Time
}

// Filter converts the parameters into a balance filter.
func (p BalanceParams) Filter() domain.BalanceFilter {
	return domain.BalanceFilter{
		CategoryID: p.CategoryID,
		Kind:       p.Kind,
		From:       p.From,
		To:         p.To,
	}
}

// BalanceResponse carries a single computed balance.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// SummaryResponse is the dashboard payload: net balance plus category breakdown.
type SummaryResponse struct {
	Balance      decimal.Decimal        `json:"balance"`
	TotalIncome  decimal.Decimal        `json:"totalIncome"`
	TotalExpense decimal.Decimal        `json:"totalExpense"`
	ByCategory   []CategoryTotalEntry   `json:"byCategory"`
	From         *time.Time             `json:"from,omitempty"`
	To           *time.Time             `json:"to,omitempty"`
}

// CategoryTotalEntry is one row of the category breakdown.
type CategoryTotalEntry struct {
	CategoryID   string              `json:"categoryID"`
	CategoryName string              `json:"categoryName"`
	Kind         domain.CategoryKind `json:"kind"`
	Total        decimal.Decimal     `json:"total"`
}

// ToSummaryResponse converts a domain summary to its API representation.
func ToSummaryResponse(s *domain.BalanceSummary) SummaryResponse {
	resp := SummaryResponse{
		Balance:      s.Balance,
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		ByCategory:   make([]CategoryTotalEntry, len(s.ByCategory)),
		From:         s.From,
		To:           s.To,
	}
	for i, row := range s.ByCategory {
		resp.ByCategory[i] = CategoryTotalEntry{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Kind:         row.Kind,
			Total:        row.Total,
		}
	}
	return resp
}
