package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
)

func TestRespondWithError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"forbidden", fmt.Errorf("wrapped: %w", apperrors.ErrForbidden), http.StatusForbidden},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"validation", fmt.Errorf("%w: kind must be INCOME or EXPENSE", apperrors.ErrValidation), http.StatusBadRequest},
		{"invalid amount", fmt.Errorf("%w: amount must not be zero", apperrors.ErrInvalidAmount), http.StatusBadRequest},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"constraint", fmt.Errorf("category in use: %w", apperrors.ErrConstraint), http.StatusConflict},
		{"transient storage fault", fmt.Errorf("failed to begin transaction: %w: connection refused", apperrors.ErrStorageUnavailable), http.StatusServiceUnavailable},
		{"unknown error", assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondWithError(c, tc.err, "request failed")

			assert.Equal(t, tc.status, w.Code)
		})
	}
}
