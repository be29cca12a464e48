package mapping

import (
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/fintrack-app/fintrack_backend/internal/models"
)

// ToModelUser converts a domain User to a model User.
// Credential columns are managed separately and left zero here.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:      d.UserID,
		Name:        d.Name,
		Email:       d.Email,
		AuditFields: ToModelAuditFields(d.AuditFields),
		DeletedAt:   d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:      m.UserID,
		Name:        m.Name,
		Email:       m.Email,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		DeletedAt:   m.DeletedAt,
	}
}

// ToDomainUserSlice converts a slice of model Users to domain Users.
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
