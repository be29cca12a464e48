package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single signed ledger entry owned by a user.
// The amount is positive for income and negative for expenses; the user's
// balance is the sum of signed amounts over all non-deleted transactions.
// Entities reference each other by id only, never by embedded object.
type Transaction struct {
	TransactionID  string          `json:"transactionID"` // Primary Key (UUID)
	UserID         string          `json:"userID"`        // FK -> users.user_id (Not Null)
	CategoryID     string          `json:"categoryID"`    // FK -> categories.category_id (Not Null)
	Amount         decimal.Decimal `json:"amount"`        // Signed; never zero
	CurrencyCode   string          `json:"currencyCode"`  // FK -> currencies.code (Not Null)
	Date           time.Time       `json:"date"`          // When the money moved
	Note           string          `json:"note"`          // Nullable
	IdempotencyKey string          `json:"-"`             // Caller-supplied retry token; unique per user
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete; excluded from aggregation
}

// IsDeleted reports whether the transaction has been soft-deleted.
func (t Transaction) IsDeleted() bool {
	return t.DeletedAt != nil
}

// RevisionKind describes what a revision row recorded.
type RevisionKind string

const (
	RevisionUpdate RevisionKind = "UPDATE"
	RevisionDelete RevisionKind = "DELETE"
)

// TransactionRevision is the audit trail for a mutation: it preserves the
// transaction's state before and after an update or delete.
type TransactionRevision struct {
	RevisionID    string          `json:"revisionID"`
	TransactionID string          `json:"transactionID"`
	Kind          RevisionKind    `json:"kind"`
	OldAmount     decimal.Decimal `json:"oldAmount"`
	NewAmount     decimal.Decimal `json:"newAmount"`
	OldCategoryID string          `json:"oldCategoryID"`
	NewCategoryID string          `json:"newCategoryID"`
	OldDate       time.Time       `json:"oldDate"`
	NewDate       time.Time       `json:"newDate"`
	OldNote       string          `json:"oldNote"`
	NewNote       string          `json:"newNote"`
	ChangedAt     time.Time       `json:"changedAt"`
	ChangedBy     string          `json:"changedBy"`
}
