package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
	"github.com/fintrack-app/fintrack_backend/internal/middleware"
)

// balanceHandler handles HTTP requests for derived balances.
type balanceHandler struct {
	balanceService portssvc.BalanceReaderSvc
}

func newBalanceHandler(bs portssvc.BalanceReaderSvc) *balanceHandler {
	return &balanceHandler{
		balanceService: bs,
	}
}

// registerBalanceRoutes registers the balance and summary routes.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceReaderSvc) {
	h := newBalanceHandler(balanceService)

	rg.GET("/balance", h.getBalance)
	rg.GET("/summary", h.getSummary)
}

// bindBalanceParams parses the shared filter query parameters.
func bindBalanceParams(c *gin.Context) (dto.BalanceParams, bool) {
	params := dto.BalanceParams{
		CategoryID: c.Query("categoryID"),
		Kind:       domain.CategoryKind(c.Query("kind")),
	}
	if params.Kind != "" && params.Kind != domain.Income && params.Kind != domain.Expense {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid kind parameter, expected INCOME or EXPENSE"})
		return params, false
	}
	var ok bool
	if params.From, ok = parseTimeQuery(c, "from"); !ok {
		return params, false
	}
	if params.To, ok = parseTimeQuery(c, "to"); !ok {
		return params, false
	}
	return params, true
}

// getBalance godoc
// @Summary Get balance
// @Description Returns the sum of signed amounts of the user's non-deleted transactions matching the filter.
// @Tags balance
// @Produce json
// @Param categoryID query string false "Filter by category"
// @Param kind query string false "Filter by category kind (INCOME or EXPENSE)"
// @Param from query string false "Inclusive start date (RFC3339)"
// @Param to query string false "Inclusive end date (RFC3339)"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Storage unavailable"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /balance [get]
func (h *balanceHandler) getBalance(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	params, ok := bindBalanceParams(c)
	if !ok {
		return
	}

	balance, err := h.balanceService.GetBalance(c.Request.Context(), userID, params.Filter())
	if err != nil {
		respondWithError(c, err, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// getSummary godoc
// @Summary Get dashboard summary
// @Description Returns net balance, income and expense totals, and a per-category breakdown for the filtered period.
// @Tags balance
// @Produce json
// @Param categoryID query string false "Filter by category"
// @Param kind query string false "Filter by category kind (INCOME or EXPENSE)"
// @Param from query string false "Inclusive start date (RFC3339)"
// @Param to query string false "Inclusive end date (RFC3339)"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /summary [get]
func (h *balanceHandler) getSummary(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	params, ok := bindBalanceParams(c)
	if !ok {
		return
	}

	summary, err := h.balanceService.GetSummary(c.Request.Context(), userID, params.Filter())
	if err != nil {
		respondWithError(c, err, "Failed to compute summary")
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}
