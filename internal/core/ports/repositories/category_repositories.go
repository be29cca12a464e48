package repositories

import (
	"context"
	"time"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// FindCategoryByID retrieves a specific category by its ID.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategoriesForUser retrieves the user's own categories plus the shared defaults.
	ListCategoriesForUser(ctx context.Context, userID string) ([]domain.Category, error)

	// CountTransactionsForCategory counts non-deleted transactions referencing the category.
	CountTransactionsForCategory(ctx context.Context, categoryID string) (int64, error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	// SaveCategory persists a new category.
	// Fails with apperrors.ErrDuplicate when the (user, name, kind) tuple already exists.
	SaveCategory(ctx context.Context, category domain.Category) error

	// UpdateCategory updates an existing category's details.
	UpdateCategory(ctx context.Context, category domain.Category) error

	// DeactivateCategory soft-deletes a category.
	// Fails with apperrors.ErrConstraint when transactions still reference it.
	DeactivateCategory(ctx context.Context, categoryID string, deletedBy string, deletedAt time.Time) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
