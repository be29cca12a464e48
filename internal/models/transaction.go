package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a ledger entry.
// Amounts are stored as NUMERIC and scanned into decimal.Decimal.
type Transaction struct {
	TransactionID  string          `db:"transaction_id"`
	UserID         string          `db:"user_id"`
	CategoryID     string          `db:"category_id"`
	Amount         decimal.Decimal `db:"amount"`
	CurrencyCode   string          `db:"currency_code"`
	Date           time.Time       `db:"date"`
	Note           string          `db:"note"`
	IdempotencyKey string          `db:"idempotency_key"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// TransactionRevision is the database representation of one audit trail row.
type TransactionRevision struct {
	RevisionID    string          `db:"revision_id"`
	TransactionID string          `db:"transaction_id"`
	Kind          string          `db:"kind"`
	OldAmount     decimal.Decimal `db:"old_amount"`
	NewAmount     decimal.Decimal `db:"new_amount"`
	OldCategoryID string          `db:"old_category_id"`
	NewCategoryID string          `db:"new_category_id"`
	OldDate       time.Time       `db:"old_date"`
	NewDate       time.Time       `db:"new_date"`
	OldNote       string          `db:"old_note"`
	NewNote       string          `db:"new_note"`
	ChangedAt     time.Time       `db:"changed_at"`
	ChangedBy     string          `db:"changed_by"`
}
