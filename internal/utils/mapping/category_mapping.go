package mapping

import (
	"database/sql"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/fintrack-app/fintrack_backend/internal/models"
)

// ToModelCategory converts a domain Category to a model Category.
// An empty owner becomes a NULL user_id, marking a shared default.
func ToModelCategory(d domain.Category) models.Category {
	userID := sql.NullString{String: d.UserID, Valid: d.UserID != ""}
	return models.Category{
		CategoryID:  d.CategoryID,
		UserID:      userID,
		Name:        d.Name,
		Kind:        string(d.Kind),
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category.
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		UserID:      m.UserID.String,
		Name:        m.Name,
		Kind:        domain.CategoryKind(m.Kind),
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCategorySlice converts a slice of model Categories to domain Categories.
func ToDomainCategorySlice(ms []models.Category) []domain.Category {
	ds := make([]domain.Category, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCategory(m)
	}
	return ds
}
