package services

import (
	"context"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a specific user by their ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// UpdateUser updates a user's own details.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// DeleteUser soft-deletes a user, preserving historical transactions.
	DeleteUser(ctx context.Context, userID string, requestingUserID string) error

	// FindOrCreateOAuthUser resolves an externally authenticated identity to a local
	// user, creating one on first sign-in.
	FindOrCreateOAuthUser(ctx context.Context, email, name string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
