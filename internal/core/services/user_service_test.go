package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/core/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
	"github.com/fintrack-app/fintrack_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, services.NewAccessGuard())
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Name: "Asha", Email: "Asha@Example.com", Password: "correct horse"}

	suite.mockUserRepo.On("SaveUser", ctx,
		mock.MatchedBy(func(user domain.User) bool {
			return user.Name == "Asha" && user.Email == "asha@example.com" && user.UserID != ""
		}),
		mock.MatchedBy(func(hash string) bool {
			// The stored hash must verify against the password without being it.
			return hash != req.Password && utils.CheckPasswordHash(req.Password, hash)
		}),
	).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("asha@example.com", user.Email)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Name: "Asha", Email: "asha@example.com", Password: "correct horse"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateUser(ctx, req)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_ExistingUser() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Name: "Asha", Email: "asha@example.com"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "asha@example.com").Return(existing, nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, "Asha@Example.com", "Asha")

	suite.Require().NoError(err)
	suite.Equal(existing.UserID, user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_FirstSignIn() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "asha@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == "asha@example.com" && user.Name == "Asha"
	}), "").Return(nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, "asha@example.com", "Asha")

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_ConcurrentFirstSignIn() {
	ctx := context.Background()
	winner := &domain.User{UserID: uuid.NewString(), Name: "Asha", Email: "asha@example.com"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "asha@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything, "").Return(apperrors.ErrDuplicate).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "asha@example.com").Return(winner, nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, "asha@example.com", "Asha")

	suite.Require().NoError(err)
	suite.Equal(winner.UserID, user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByID_DeletedReadsAsNotFound() {
	ctx := context.Background()
	deletedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	deleted := &domain.User{UserID: uuid.NewString(), Name: "Gone", Email: "gone@example.com", DeletedAt: &deletedAt}

	suite.mockUserRepo.On("FindUserByID", ctx, deleted.UserID).Return(deleted, nil).Once()

	_, err := suite.service.GetUserByID(ctx, deleted.UserID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestUpdateUser_OtherUserDenied() {
	ctx := context.Background()
	targetID := uuid.NewString()
	newName := "Imposter"

	_, err := suite.service.UpdateUser(ctx, targetID, dto.UpdateUserRequest{Name: &newName}, uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	existing := &domain.User{UserID: userID, Name: "Asha", Email: "asha@example.com"}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(existing, nil).Once()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, mock.AnythingOfType("time.Time"), userID).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, userID, userID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestListUsers_RepositoryError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockUserRepo.On("FindUsers", ctx, 20, 0).Return(nil, expectedErr).Once()

	_, err := suite.service.ListUsers(ctx, 0, 0)

	suite.ErrorIs(err, expectedErr)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
