package mapping

import (
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/fintrack-app/fintrack_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:  d.TransactionID,
		UserID:         d.UserID,
		CategoryID:     d.CategoryID,
		Amount:         d.Amount,
		CurrencyCode:   d.CurrencyCode,
		Date:           d.Date,
		Note:           d.Note,
		IdempotencyKey: d.IdempotencyKey,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:  m.TransactionID,
		UserID:         m.UserID,
		CategoryID:     m.CategoryID,
		Amount:         m.Amount,
		CurrencyCode:   m.CurrencyCode,
		Date:           m.Date,
		Note:           m.Note,
		IdempotencyKey: m.IdempotencyKey,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelTransactionRevision converts a domain TransactionRevision to its model form.
func ToModelTransactionRevision(d domain.TransactionRevision) models.TransactionRevision {
	return models.TransactionRevision{
		RevisionID:    d.RevisionID,
		TransactionID: d.TransactionID,
		Kind:          string(d.Kind),
		OldAmount:     d.OldAmount,
		NewAmount:     d.NewAmount,
		OldCategoryID: d.OldCategoryID,
		NewCategoryID: d.NewCategoryID,
		OldDate:       d.OldDate,
		NewDate:       d.NewDate,
		OldNote:       d.OldNote,
		NewNote:       d.NewNote,
		ChangedAt:     d.ChangedAt,
		ChangedBy:     d.ChangedBy,
	}
}

// ToDomainTransactionRevision converts a model TransactionRevision to its domain form.
func ToDomainTransactionRevision(m models.TransactionRevision) domain.TransactionRevision {
	return domain.TransactionRevision{
		RevisionID:    m.RevisionID,
		TransactionID: m.TransactionID,
		Kind:          domain.RevisionKind(m.Kind),
		OldAmount:     m.OldAmount,
		NewAmount:     m.NewAmount,
		OldCategoryID: m.OldCategoryID,
		NewCategoryID: m.NewCategoryID,
		OldDate:       m.OldDate,
		NewDate:       m.NewDate,
		OldNote:       m.OldNote,
		NewNote:       m.NewNote,
		ChangedAt:     m.ChangedAt,
		ChangedBy:     m.ChangedBy,
	}
}

// ToDomainTransactionRevisionSlice converts a slice of model revisions to domain revisions.
func ToDomainTransactionRevisionSlice(ms []models.TransactionRevision) []domain.TransactionRevision {
	ds := make([]domain.TransactionRevision, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionRevision(m)
	}
	return ds
}
