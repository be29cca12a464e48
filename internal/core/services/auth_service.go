package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
	"github.com/fintrack-app/fintrack_backend/internal/utils"
	"github.com/fintrack-app/fintrack_backend/pkg/config"
)

// authService owns token issuance and rotation. JWT validation on incoming
// requests lives in the middleware.
type authService struct {
	BaseService
	cfg          *config.Config
	userRepo     portsrepo.UserRepositoryFacade
	userService  portssvc.UserSvcFacade
	oauth2Config *oauth2.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, userService portssvc.UserSvcFacade) portssvc.AuthSvcFacade {
	return &authService{
		cfg:         cfg,
		userRepo:    userRepo,
		userService: userService,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// issueTokens generates an access token and a rotated refresh token for the
// user and persists the refresh token hash.
func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	rawRefreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshHash := utils.HashRefreshToken(rawRefreshToken)
	refreshExpiry := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, &refreshHash, &refreshExpiry); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.AuthResponse{
		UserID:       user.UserID,
		Name:         user.Name,
		Token:        accessToken,
		RefreshToken: rawRefreshToken,
	}, nil
}

// Register creates a user and returns freshly issued tokens.
func (s *authService) Register(ctx context.Context, req dto.CreateUserRequest) (*dto.AuthResponse, error) {
	user, err := s.userService.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Login verifies the password and returns freshly issued tokens.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	userID, passwordHash, err := s.userRepo.FindCredentialsByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to look up credentials")
		return nil, fmt.Errorf("failed to look up credentials: %w", err)
	}

	if passwordHash == "" || !utils.CheckPasswordHash(req.Password, passwordHash) {
		s.LogWarn(ctx, "Password mismatch on login", slog.String("user_id", userID))
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Refresh validates the presented refresh token against the stored hash and
// rotates it. Any mismatch or expiry yields ErrUnauthorized.
func (s *authService) Refresh(ctx context.Context, userID string, refreshToken string) (*dto.AuthResponse, error) {
	storedHash, expiry, err := s.userRepo.FindRefreshToken(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if storedHash == nil || expiry == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*expiry) {
		s.LogInfo(ctx, "Refresh token expired", slog.String("user_id", userID))
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CompareRefreshTokenHash(refreshToken, *storedHash) {
		s.LogWarn(ctx, "Refresh token mismatch", slog.String("user_id", userID))
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout clears the stored refresh token so it can no longer be redeemed.
func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil); err != nil {
		s.LogError(ctx, err, "Failed to clear refresh token", slog.String("user_id", userID))
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// LoginWithGoogle exchanges an OAuth authorization code, verifies the ID token,
// resolves the Google identity to a local user, and returns issued tokens.
func (s *authService) LoginWithGoogle(ctx context.Context, code string) (*dto.AuthResponse, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured")
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("oauth token response did not include an id_token")
	}

	payload, err := idtoken.Validate(ctx, rawIDToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return nil, errors.New("google ID token did not include an email claim")
	}
	if name == "" {
		name = email
	}

	user, err := s.userService.FindOrCreateOAuthUser(ctx, email, name)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}
