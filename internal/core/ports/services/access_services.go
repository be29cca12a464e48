package services

import (
	"context"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
)

// AccessGuardSvc maps an authenticated identity to the ledger data it may touch.
// It is a stateless function of (identity, resource ownership): cross-user access
// is denied with apperrors.ErrForbidden unless the resource is a shared default.
type AccessGuardSvc interface {
	// AuthorizeOwner checks that the identity owns the resource.
	AuthorizeOwner(ctx context.Context, identityUserID string, resourceOwnerID string) error

	// AuthorizeCategoryUse checks that the identity may reference the category
	// on a transaction: it must own the category or the category must be shared.
	AuthorizeCategoryUse(ctx context.Context, identityUserID string, category *domain.Category) error
}
