package repositories

import (
	"context"
	"time"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, used by login and OAuth sign-in.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user with their password hash.
	// An empty hash is stored for OAuth-only users.
	// Fails with apperrors.ErrDuplicate when the email is already registered.
	SaveUser(ctx context.Context, user domain.User, passwordHash string) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// MarkUserDeleted marks a user as deleted (soft delete).
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// UserCredentialManager defines operations on stored credentials.
type UserCredentialManager interface {
	// FindCredentialsByEmail returns the user's id and password hash for login.
	FindCredentialsByEmail(ctx context.Context, email string) (userID string, passwordHash string, err error)

	// UpdateRefreshToken stores the hash and expiry of the user's current refresh token.
	// A nil hash clears the stored token.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiry *time.Time) error

	// FindRefreshToken returns the stored refresh token hash and expiry for a user.
	FindRefreshToken(ctx context.Context, userID string) (tokenHash *string, expiry *time.Time, err error)
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
	UserCredentialManager
}
