package services

import (
	"context"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
)

// CategoryReaderSvc defines read operations for category data
type CategoryReaderSvc interface {
	// GetCategoryByID retrieves a category the user may read (own or shared).
	GetCategoryByID(ctx context.Context, categoryID string, requestingUserID string) (*domain.Category, error)

	// ListCategories retrieves the user's categories plus the shared defaults.
	ListCategories(ctx context.Context, requestingUserID string) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for category data
type CategoryWriterSvc interface {
	// CreateCategory creates a category owned by the requesting user.
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, requestingUserID string) (*domain.Category, error)

	// UpdateCategory renames a category the user owns.
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, requestingUserID string) (*domain.Category, error)

	// DeactivateCategory soft-deletes a category the user owns.
	// Rejected with apperrors.ErrConstraint while transactions still reference it.
	DeactivateCategory(ctx context.Context, categoryID string, requestingUserID string) error
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
