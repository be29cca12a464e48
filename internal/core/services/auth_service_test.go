package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/core/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
	"github.com/fintrack-app/fintrack_backend/internal/utils"
	"github.com/fintrack-app/fintrack_backend/pkg/config"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.AuthSvcFacade

	user         *domain.User
	password     string
	passwordHash string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:                  "unit-test-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "fintrack-backend",
		RefreshTokenExpiryDuration: 168 * time.Hour,
	}
	userService := services.NewUserService(suite.mockUserRepo, services.NewAccessGuard())
	suite.service = services.NewAuthService(cfg, suite.mockUserRepo, userService)

	suite.user = &domain.User{UserID: uuid.NewString(), Name: "Asha", Email: "asha@example.com"}
	suite.password = "correct horse"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)
	suite.passwordHash = hash
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindCredentialsByEmail", ctx, suite.user.Email).Return(suite.user.UserID, suite.passwordHash, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.user.UserID).Return(suite.user, nil).Once()
	suite.mockUserRepo.On("UpdateRefreshToken", ctx, suite.user.UserID,
		mock.MatchedBy(func(hash *string) bool { return hash != nil && *hash != "" }),
		mock.MatchedBy(func(expiry *time.Time) bool { return expiry != nil && expiry.After(time.Now()) }),
	).Return(nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: suite.user.Email, Password: suite.password})

	suite.Require().NoError(err)
	suite.Equal(suite.user.UserID, resp.UserID)
	suite.NotEmpty(resp.RefreshToken)

	claims, err := utils.ParseAndValidateJWT(resp.Token, "unit-test-secret")
	suite.Require().NoError(err)
	suite.Equal(suite.user.UserID, claims.Subject)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindCredentialsByEmail", ctx, suite.user.Email).Return(suite.user.UserID, suite.passwordHash, nil).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: suite.user.Email, Password: "wrong"})

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmailIndistinguishable() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindCredentialsByEmail", ctx, "nobody@example.com").Return("", "", apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "anything"})

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_OAuthOnlyAccountHasNoPassword() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindCredentialsByEmail", ctx, suite.user.Email).Return(suite.user.UserID, "", nil).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: suite.user.Email, Password: suite.password})

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_RotatesToken() {
	ctx := context.Background()
	rawToken := "raw-refresh-token"
	storedHash := utils.HashRefreshToken(rawToken)
	expiry := time.Now().Add(time.Hour)

	suite.mockUserRepo.On("FindRefreshToken", ctx, suite.user.UserID).Return(&storedHash, &expiry, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.user.UserID).Return(suite.user, nil).Once()
	suite.mockUserRepo.On("UpdateRefreshToken", ctx, suite.user.UserID,
		mock.MatchedBy(func(hash *string) bool { return hash != nil && *hash != storedHash }),
		mock.MatchedBy(func(expiry *time.Time) bool { return expiry != nil }),
	).Return(nil).Once()

	resp, err := suite.service.Refresh(ctx, suite.user.UserID, rawToken)

	suite.Require().NoError(err)
	suite.NotEmpty(resp.RefreshToken)
	suite.NotEqual(rawToken, resp.RefreshToken)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRefresh_Expired() {
	ctx := context.Background()
	rawToken := "raw-refresh-token"
	storedHash := utils.HashRefreshToken(rawToken)
	expiry := time.Now().Add(-time.Minute)

	suite.mockUserRepo.On("FindRefreshToken", ctx, suite.user.UserID).Return(&storedHash, &expiry, nil).Once()

	_, err := suite.service.Refresh(ctx, suite.user.UserID, rawToken)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_Mismatch() {
	ctx := context.Background()
	storedHash := utils.HashRefreshToken("the-real-token")
	expiry := time.Now().Add(time.Hour)

	suite.mockUserRepo.On("FindRefreshToken", ctx, suite.user.UserID).Return(&storedHash, &expiry, nil).Once()

	_, err := suite.service.Refresh(ctx, suite.user.UserID, "a-stolen-guess")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_ClearedByLogout() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindRefreshToken", ctx, suite.user.UserID).Return(nil, nil, nil).Once()

	_, err := suite.service.Refresh(ctx, suite.user.UserID, "anything")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogout_ClearsStoredToken() {
	ctx := context.Background()

	suite.mockUserRepo.On("UpdateRefreshToken", ctx, suite.user.UserID, (*string)(nil), (*time.Time)(nil)).Return(nil).Once()

	err := suite.service.Logout(ctx, suite.user.UserID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
