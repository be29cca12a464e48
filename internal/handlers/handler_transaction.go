package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
	"github.com/fintrack-app/fintrack_backend/internal/middleware"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers all transaction-related routes.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
		transactions.GET("/:id/revisions", h.getRevisions)
	}
}

// parseTimeQuery parses an optional RFC3339 query parameter.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + " parameter, expected RFC3339"})
		return nil, false
	}
	return &t, true
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Records a signed ledger entry. A repeated idempotency key returns the original transaction.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount, date, or payload"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Category belongs to another user"
// @Failure 404 {object} ErrorResponse "Category or currency not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves the user's transactions newest first, optionally filtered by category, kind, or date range.
// @Tags transactions
// @Produce json
// @Param categoryID query string false "Filter by category"
// @Param kind query string false "Filter by category kind (INCOME or EXPENSE)"
// @Param from query string false "Inclusive start date (RFC3339)"
// @Param to query string false "Inclusive end date (RFC3339)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Opaque cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	params := dto.ListTransactionsParams{
		CategoryID: c.Query("categoryID"),
		Kind:       domain.CategoryKind(c.Query("kind")),
	}
	if params.Kind != "" && params.Kind != domain.Income && params.Kind != domain.Expense {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid kind parameter, expected INCOME or EXPENSE"})
		return
	}

	var okTime bool
	if params.From, okTime = parseTimeQuery(c, "from"); !okTime {
		return
	}
	if params.To, okTime = parseTimeQuery(c, "to"); !okTime {
		return
	}

	if rawLimit := c.Query("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a transaction the user owns. Soft-deleted transactions read as not found.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Applies partial changes to a transaction the user owns, recording an audit revision.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Soft-deletes a transaction the user owns. The entry drops out of balances but stays auditable.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondWithError(c, err, "Failed to delete transaction")
		return
	}

	c.Status(http.StatusNoContent)
}

// getRevisions godoc
// @Summary Get a transaction's audit trail
// @Description Returns the revisions recorded for a transaction the user owns, oldest first. Readable after deletion.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {array} dto.RevisionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id}/revisions [get]
func (h *transactionHandler) getRevisions(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	revisions, err := h.transactionService.GetRevisions(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve revisions")
		return
	}

	c.JSON(http.StatusOK, dto.ToRevisionResponses(revisions))
}
