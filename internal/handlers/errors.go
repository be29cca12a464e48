package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/middleware"
)

// ErrorResponse is the generic error payload returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithError maps service errors onto HTTP status codes and writes the
// response. Unknown errors become a 500 with a generic message so internals
// never leak to the client.
func respondWithError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConstraint), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Storage temporarily unavailable, retry with the same idempotency key"})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallbackMsg})
	}
}
