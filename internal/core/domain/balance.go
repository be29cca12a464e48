package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceFilter narrows a balance computation to a category, kind, or date range.
// The zero value means "everything the user owns".
type BalanceFilter struct {
	CategoryID string
	Kind       CategoryKind
	From       *time.Time
	To         *time.Time
}

// Key returns a stable string form of the filter for use in cache keys.
func (f BalanceFilter) Key() string {
	var b strings.Builder
	b.WriteString(f.CategoryID)
	b.WriteByte('|')
	b.WriteString(string(f.Kind))
	b.WriteByte('|')
	if f.From != nil {
		b.WriteString(f.From.UTC().Format(time.RFC3339Nano))
	}
	b.WriteByte('|')
	if f.To != nil {
		b.WriteString(f.To.UTC().Format(time.RFC3339Nano))
	}
	return b.String()
}

// CategoryTotal is one row of a per-category breakdown.
type CategoryTotal struct {
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	Kind         CategoryKind    `json:"kind"`
	Total        decimal.Decimal `json:"total"`
}

// BalanceSummary is the dashboard view: net balance plus per-category totals
// for the filtered period.
type BalanceSummary struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpense  decimal.Decimal `json:"totalExpense"`
	ByCategory    []CategoryTotal `json:"byCategory"`
	From          *time.Time      `json:"from,omitempty"`
	To            *time.Time      `json:"to,omitempty"`
	ComputedAtUTC time.Time       `json:"computedAt"`
}
