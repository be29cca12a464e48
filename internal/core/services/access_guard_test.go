package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/fintrack-app/fintrack_backend/internal/core/services"
)

func TestAccessGuard_AuthorizeOwner(t *testing.T) {
	ctx := context.Background()
	guard := services.NewAccessGuard()
	ownerID := uuid.NewString()

	t.Run("owner allowed", func(t *testing.T) {
		assert.NoError(t, guard.AuthorizeOwner(ctx, ownerID, ownerID))
	})

	t.Run("missing identity unauthorized", func(t *testing.T) {
		err := guard.AuthorizeOwner(ctx, "", ownerID)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("other user forbidden", func(t *testing.T) {
		err := guard.AuthorizeOwner(ctx, uuid.NewString(), ownerID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestAccessGuard_AuthorizeCategoryUse(t *testing.T) {
	ctx := context.Background()
	guard := services.NewAccessGuard()
	userID := uuid.NewString()

	t.Run("shared default usable by anyone", func(t *testing.T) {
		shared := &domain.Category{CategoryID: uuid.NewString(), Name: "Groceries", Kind: domain.Expense, IsActive: true}
		assert.NoError(t, guard.AuthorizeCategoryUse(ctx, userID, shared))
	})

	t.Run("own category usable", func(t *testing.T) {
		own := &domain.Category{CategoryID: uuid.NewString(), UserID: userID, Name: "Coffee", Kind: domain.Expense, IsActive: true}
		assert.NoError(t, guard.AuthorizeCategoryUse(ctx, userID, own))
	})

	t.Run("other user's category forbidden", func(t *testing.T) {
		foreign := &domain.Category{CategoryID: uuid.NewString(), UserID: uuid.NewString(), Name: "Private", Kind: domain.Expense, IsActive: true}
		err := guard.AuthorizeCategoryUse(ctx, userID, foreign)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("nil category not found", func(t *testing.T) {
		err := guard.AuthorizeCategoryUse(ctx, userID, nil)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
