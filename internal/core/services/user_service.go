package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
	"github.com/fintrack-app/fintrack_backend/internal/utils"
)

// userService manages user accounts.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	guard    portssvc.AccessGuardSvc
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, guard portssvc.AccessGuardSvc) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
		guard:    guard,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID: userID,
		Name:   req.Name,
		Email:  strings.ToLower(req.Email),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user, passwordHash); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save user")
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID))
	return &user, nil
}

// FindOrCreateOAuthUser resolves an externally authenticated identity to a
// local user, creating one without a password on first sign-in.
func (s *userService) FindOrCreateOAuthUser(ctx context.Context, email, name string) (*domain.User, error) {
	email = strings.ToLower(email)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	newUser := domain.User{
		UserID: userID,
		Name:   name,
		Email:  email,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, newUser, ""); err != nil {
		// A concurrent first sign-in may have created the user already.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.userRepo.FindUserByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to create user from OAuth identity: %w", err)
	}

	s.LogInfo(ctx, "User created from OAuth sign-in", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

// GetUserByID retrieves a specific user by their ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user", slog.String("user_id", userID))
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	if user.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// ListUsers retrieves a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser updates a user's own details.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if err := s.guard.AuthorizeOwner(ctx, requestingUserID, userID); err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name == nil || *req.Name == user.Name {
		return user, nil
	}
	user.Name = *req.Name
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.LogInfo(ctx, "User updated", slog.String("user_id", userID))
	return user, nil
}

// DeleteUser soft-deletes a user's own account. Historical transactions keep
// their owner reference.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if err := s.guard.AuthorizeOwner(ctx, requestingUserID, userID); err != nil {
		return err
	}

	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now().UTC(), requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}
