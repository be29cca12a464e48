package services

import (
	"context"

	"github.com/fintrack-app/fintrack_backend/internal/dto"
)

// AuthSvcFacade issues and rotates credentials. JWT validation on incoming
// requests lives in the middleware; this service owns issuance.
type AuthSvcFacade interface {
	// Register creates a user and returns freshly issued tokens.
	Register(ctx context.Context, req dto.CreateUserRequest) (*dto.AuthResponse, error)

	// Login verifies the password and returns freshly issued tokens.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)

	// Refresh validates the presented refresh token and rotates it.
	Refresh(ctx context.Context, userID string, refreshToken string) (*dto.AuthResponse, error)

	// Logout invalidates the stored refresh token.
	Logout(ctx context.Context, userID string) error

	// LoginWithGoogle exchanges an OAuth authorization code, resolves the Google
	// identity to a local user, and returns issued tokens.
	LoginWithGoogle(ctx context.Context, code string) (*dto.AuthResponse, error)
}
