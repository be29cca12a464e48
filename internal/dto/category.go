package dto

import (
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
)

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name string              `json:"name" binding:"required"`
	Kind domain.CategoryKind `json:"kind" binding:"required,oneof=INCOME EXPENSE"`
}

// UpdateCategoryRequest defines the payload for renaming a category.
// The kind is immutable: changing it would silently reclassify history.
type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty"`
}

// CategoryResponse is the API representation of a category.
type CategoryResponse struct {
	CategoryID string              `json:"categoryID"`
	Name       string              `json:"name"`
	Kind       domain.CategoryKind `json:"kind"`
	IsShared   bool                `json:"isShared"`
}

// ListCategoriesResponse wraps the user's categories plus shared defaults.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a domain category to its API representation.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Kind:       c.Kind,
		IsShared:   c.IsShared(),
	}
}

// ToListCategoriesResponse converts a slice of domain categories.
func ToListCategoriesResponse(categories []domain.Category) ListCategoriesResponse {
	resp := ListCategoriesResponse{Categories: make([]CategoryResponse, len(categories))}
	for i := range categories {
		resp.Categories[i] = ToCategoryResponse(&categories[i])
	}
	return resp
}
