package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
)

// ErrSharedCategoryImmutable wraps ErrForbidden so the HTTP layer maps it to 403.
var ErrSharedCategoryImmutable = fmt.Errorf("%w: shared default categories cannot be modified", apperrors.ErrForbidden)

// categoryService manages user categories and exposes the shared defaults.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
	guard        portssvc.AccessGuardSvc
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade, guard portssvc.AccessGuardSvc) portssvc.CategorySvcFacade {
	return &categoryService{
		categoryRepo: categoryRepo,
		guard:        guard,
	}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// CreateCategory creates a category owned by the requesting user.
func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, requestingUserID string) (*domain.Category, error) {
	if req.Kind != domain.Income && req.Kind != domain.Expense {
		return nil, fmt.Errorf("%w: kind must be INCOME or EXPENSE", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		UserID:     requestingUserID,
		Name:       req.Name,
		Kind:       req.Kind,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category %q (%s) already exists", apperrors.ErrDuplicate, req.Name, req.Kind)
		}
		s.LogError(ctx, err, "Failed to save category", slog.String("user_id", requestingUserID))
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	s.LogInfo(ctx, "Category created", slog.String("category_id", category.CategoryID))
	return &category, nil
}

// GetCategoryByID retrieves a category the user may read: their own or a shared default.
func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string, requestingUserID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	if err := s.guard.AuthorizeCategoryUse(ctx, requestingUserID, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories retrieves the user's categories plus the shared defaults.
func (s *categoryService) ListCategories(ctx context.Context, requestingUserID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategoriesForUser(ctx, requestingUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("user_id", requestingUserID))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory renames a category the user owns. Shared defaults are immutable.
func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, requestingUserID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	if category.IsShared() {
		return nil, ErrSharedCategoryImmutable
	}
	if err := s.guard.AuthorizeOwner(ctx, requestingUserID, category.UserID); err != nil {
		return nil, err
	}

	if req.Name == nil || *req.Name == category.Name {
		return category, nil
	}
	category.Name = *req.Name
	category.LastUpdatedAt = time.Now().UTC()
	category.LastUpdatedBy = requestingUserID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.LogInfo(ctx, "Category updated", slog.String("category_id", categoryID))
	return category, nil
}

// DeactivateCategory soft-deletes a category the user owns. Rejected while
// non-deleted transactions still reference it; the caller must reassign or
// delete those first.
func (s *categoryService) DeactivateCategory(ctx context.Context, categoryID string, requestingUserID string) error {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	if category.IsShared() {
		return ErrSharedCategoryImmutable
	}
	if err := s.guard.AuthorizeOwner(ctx, requestingUserID, category.UserID); err != nil {
		return err
	}

	inUse, err := s.categoryRepo.CountTransactionsForCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count transactions for category %s: %w", categoryID, err)
	}
	if inUse > 0 {
		return fmt.Errorf("%w: category %s is referenced by %d transactions", apperrors.ErrConstraint, categoryID, inUse)
	}

	if err := s.categoryRepo.DeactivateCategory(ctx, categoryID, requestingUserID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate category", slog.String("category_id", categoryID))
		return fmt.Errorf("failed to deactivate category: %w", err)
	}

	s.LogInfo(ctx, "Category deactivated", slog.String("category_id", categoryID))
	return nil
}
