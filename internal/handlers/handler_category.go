package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
	"github.com/fintrack-app/fintrack_backend/internal/middleware"
)

// categoryHandler handles HTTP requests related to categories.
type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func newCategoryHandler(cs portssvc.CategorySvcFacade) *categoryHandler {
	return &categoryHandler{
		categoryService: cs,
	}
}

// registerCategoryRoutes registers all category-related routes.
func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := newCategoryHandler(categoryService)

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.GET("/:id", h.getCategory)
		categories.PUT("/:id", h.updateCategory)
		categories.DELETE("/:id", h.deleteCategory)
	}
}

// createCategory godoc
// @Summary Create a category
// @Description Creates a category owned by the requesting user.
// @Tags categories
// @Accept json
// @Produce json
// @Param category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate name for this kind"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listCategories godoc
// @Summary List categories
// @Description Retrieves the user's categories plus the shared defaults.
// @Tags categories
// @Produce json
// @Success 200 {object} dto.ListCategoriesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to list categories")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCategoriesResponse(categories))
}

// getCategory godoc
// @Summary Get a category
// @Description Retrieves a category the user may read: their own or a shared default.
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve category")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// updateCategory godoc
// @Summary Rename a category
// @Description Renames a category the user owns. Shared defaults are immutable.
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// deleteCategory godoc
// @Summary Deactivate a category
// @Description Soft-deletes a category the user owns. Rejected while transactions still reference it.
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transactions still reference this category"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.categoryService.DeactivateCategory(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondWithError(c, err, "Failed to delete category")
		return
	}

	c.Status(http.StatusNoContent)
}
