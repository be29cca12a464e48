package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers all currency-related routes.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrency)
	}
}

// listCurrencies godoc
// @Summary List currencies
// @Description Retrieves all supported currencies.
// @Tags currencies
// @Produce json
// @Success 200 {object} dto.ListCurrenciesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list currencies")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCurrenciesResponse(currencies))
}

// getCurrency godoc
// @Summary Get a currency
// @Description Retrieves a specific currency by its code.
// @Tags currencies
// @Produce json
// @Param code path string true "Currency code (e.g. USD)"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrency(c *gin.Context) {
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve currency")
		return
	}

	c.JSON(http.StatusOK, dto.CurrencyResponse{
		CurrencyCode: currency.CurrencyCode,
		Symbol:       currency.Symbol,
		Name:         currency.Name,
		Precision:    currency.Precision,
	})
}
