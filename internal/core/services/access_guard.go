package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
)

// accessGuard is the stateless ownership check every ledger operation goes
// through. Identity comes in as an explicit parameter; there is no ambient
// session state at this layer.
type accessGuard struct {
	BaseService
}

// NewAccessGuard creates the access guard service.
func NewAccessGuard() portssvc.AccessGuardSvc {
	return &accessGuard{}
}

var _ portssvc.AccessGuardSvc = (*accessGuard)(nil)

// AuthorizeOwner checks that the identity owns the resource.
func (g *accessGuard) AuthorizeOwner(ctx context.Context, identityUserID string, resourceOwnerID string) error {
	if identityUserID == "" {
		return fmt.Errorf("%w: missing identity", apperrors.ErrUnauthorized)
	}
	if identityUserID != resourceOwnerID {
		g.LogWarn(ctx, "Cross-user access denied",
			slog.String("identity_user_id", identityUserID),
			slog.String("resource_owner_id", resourceOwnerID))
		return apperrors.ErrForbidden
	}
	return nil
}

// AuthorizeCategoryUse checks that the identity may reference the category on a
// transaction: shared defaults are usable by everyone, user categories only by
// their owner.
func (g *accessGuard) AuthorizeCategoryUse(ctx context.Context, identityUserID string, category *domain.Category) error {
	if category == nil {
		return apperrors.ErrNotFound
	}
	if category.IsShared() {
		return nil
	}
	return g.AuthorizeOwner(ctx, identityUserID, category.UserID)
}
