package dto

import (
	"time"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the payload for creating a transaction.
// Amount is signed: positive for income, negative for expenses.
type CreateTransactionRequest struct {
	CategoryID     string          `json:"categoryID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required,notzero"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,len=3"`
	Date           time.Time       `json:"date" binding:"required"`
	Note           string          `json:"note"`
	IdempotencyKey string          `json:"idempotencyKey"`
}

// UpdateTransactionRequest defines the payload for updating a transaction.
// Nil fields are unchanged.
type UpdateTransactionRequest struct {
	CategoryID *string          `json:"categoryID,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Note       *string          `json:"note,omitempty"`
}

// TransactionResponse is the API representation of a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	CategoryID    string          `json:"categoryID"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	Date          time.Time       `json:"date"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListTransactionsParams holds query parameters for listing transactions.
type ListTransactionsParams struct {
	CategoryID string
	Kind       domain.CategoryKind
	From       *time.Time
	To         *time.Time
	Limit      int
	NextToken  *string
}

// Filter converts the list parameters into a balance filter.
func (p ListTransactionsParams) Filter() domain.BalanceFilter {
	return domain.BalanceFilter{
		CategoryID: p.CategoryID,
		Kind:       p.Kind,
		From:       p.From,
		To:         p.To,
	}
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// RevisionResponse is the API representation of one audit trail entry.
type RevisionResponse struct {
	RevisionID string              `json:"revisionID"`
	Kind       domain.RevisionKind `json:"kind"`
	OldAmount  decimal.Decimal     `json:"oldAmount"`
	NewAmount  decimal.Decimal     `json:"newAmount"`
	ChangedAt  time.Time           `json:"changedAt"`
	ChangedBy  string              `json:"changedBy"`
}

// ToTransactionResponse converts a domain transaction to its API representation.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		CategoryID:    t.CategoryID,
		Amount:        t.Amount,
		CurrencyCode:  t.CurrencyCode,
		Date:          t.Date,
		Note:          t.Note,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// ToRevisionResponses converts a slice of domain revisions.
func ToRevisionResponses(revs []domain.TransactionRevision) []RevisionResponse {
	out := make([]RevisionResponse, len(revs))
	for i, r := range revs {
		out[i] = RevisionResponse{
			RevisionID: r.RevisionID,
			Kind:       r.Kind,
			OldAmount:  r.OldAmount,
			NewAmount:  r.NewAmount,
			ChangedAt:  r.ChangedAt,
			ChangedBy:  r.ChangedBy,
		}
	}
	return out
}
