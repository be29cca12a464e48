package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/core/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockCategoryRepo *MockCategoryRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockInvalidator  *MockBalanceInvalidator
	service          portssvc.TransactionSvcFacade

	userID         string
	sharedCategory domain.Category
	ownCategory    domain.Category
	usd            domain.Currency
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockInvalidator = new(MockBalanceInvalidator)
	suite.service = services.NewTransactionService(
		suite.mockTxnRepo,
		suite.mockCategoryRepo,
		suite.mockCurrencyRepo,
		services.NewAccessGuard(),
		suite.mockInvalidator,
		24*time.Hour,
	)

	suite.userID = uuid.NewString()
	suite.sharedCategory = domain.Category{
		CategoryID: uuid.NewString(),
		Name:       "Salary",
		Kind:       domain.Income,
		IsActive:   true,
	}
	suite.ownCategory = domain.Category{
		CategoryID: uuid.NewString(),
		UserID:     suite.userID,
		Name:       "Coffee",
		Kind:       domain.Expense,
		IsActive:   true,
	}
	suite.usd = domain.Currency{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2}
}

func (suite *TransactionServiceTestSuite) newTransaction(amount string) *domain.Transaction {
	createdAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		CategoryID:    suite.ownCategory.CategoryID,
		Amount:        decimal.RequireFromString(amount),
		CurrencyCode:  "USD",
		Date:          time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		AuditFields: domain.AuditFields{
			CreatedAt:     createdAt,
			CreatedBy:     suite.userID,
			LastUpdatedAt: createdAt,
			LastUpdatedBy: suite.userID,
		},
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Success() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		CategoryID:   suite.sharedCategory.CategoryID,
		Amount:       decimal.RequireFromString("1000.00"),
		CurrencyCode: "USD",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Note:         "January salary",
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.sharedCategory.CategoryID).Return(&suite.sharedCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.UserID == suite.userID &&
			txn.CategoryID == suite.sharedCategory.CategoryID &&
			txn.Amount.Equal(req.Amount) &&
			txn.TransactionID != ""
	})).Return(nil).Once()
	suite.mockInvalidator.On("InvalidateUser", suite.userID).Return().Once()

	txn, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.True(txn.Amount.Equal(req.Amount))
	suite.Equal(suite.userID, txn.UserID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockInvalidator.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_IdempotentReplay() {
	ctx := context.Background()
	existing := suite.newTransaction("-12.50")
	existing.IdempotencyKey = "retry-123"
	req := dto.CreateTransactionRequest{
		CategoryID:     suite.ownCategory.CategoryID,
		Amount:         decimal.RequireFromString("-12.50"),
		CurrencyCode:   "USD",
		Date:           existing.Date,
		IdempotencyKey: "retry-123",
	}

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, suite.userID, "retry-123").Return(existing, nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing.TransactionID, txn.TransactionID)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
	suite.mockInvalidator.AssertNotCalled(suite.T(), "InvalidateUser", mock.Anything)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_DuplicateKeyRace() {
	ctx := context.Background()
	existing := suite.newTransaction("-12.50")
	existing.IdempotencyKey = "retry-123"
	req := dto.CreateTransactionRequest{
		CategoryID:     suite.ownCategory.CategoryID,
		Amount:         decimal.RequireFromString("-12.50"),
		CurrencyCode:   "USD",
		Date:           existing.Date,
		IdempotencyKey: "retry-123",
	}

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, suite.userID, "retry-123").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.ownCategory.CategoryID).Return(&suite.ownCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, suite.userID, "retry-123").Return(existing, nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing.TransactionID, txn.TransactionID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ZeroAmount() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		CategoryID:   suite.sharedCategory.CategoryID,
		Amount:       decimal.Zero,
		CurrencyCode: "USD",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.sharedCategory.CategoryID).Return(&suite.sharedCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TooManyFractionalDigits() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		CategoryID:   suite.sharedCategory.CategoryID,
		Amount:       decimal.RequireFromString("10.123"),
		CurrencyCode: "USD",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.sharedCategory.CategoryID).Return(&suite.sharedCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_AmountExceedsRange() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		CategoryID:   suite.sharedCategory.CategoryID,
		Amount:       decimal.RequireFromString("1000000000001"),
		CurrencyCode: "USD",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.sharedCategory.CategoryID).Return(&suite.sharedCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_SignMismatch() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		CategoryID:   suite.sharedCategory.CategoryID, // INCOME
		Amount:       decimal.RequireFromString("-50.00"),
		CurrencyCode: "USD",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.sharedCategory.CategoryID).Return(&suite.sharedCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.ErrorIs(err, services.ErrAmountSign)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_FutureDateBeyondTolerance() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		CategoryID:   suite.sharedCategory.CategoryID,
		Amount:       decimal.RequireFromString("100.00"),
		CurrencyCode: "USD",
		Date:         time.Now().UTC().Add(48 * time.Hour),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.sharedCategory.CategoryID).Return(&suite.sharedCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.ErrorIs(err, services.ErrFutureDate)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_CrossUserCategoryDenied() {
	ctx := context.Background()
	otherUserCategory := domain.Category{
		CategoryID: uuid.NewString(),
		UserID:     uuid.NewString(),
		Name:       "Private",
		Kind:       domain.Expense,
		IsActive:   true,
	}
	req := dto.CreateTransactionRequest{
		CategoryID:   otherUserCategory.CategoryID,
		Amount:       decimal.RequireFromString("-5.00"),
		CurrencyCode: "USD",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, otherUserCategory.CategoryID).Return(&otherUserCategory, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InactiveCategory() {
	ctx := context.Background()
	inactive := suite.ownCategory
	inactive.IsActive = false
	req := dto.CreateTransactionRequest{
		CategoryID:   inactive.CategoryID,
		Amount:       decimal.RequireFromString("-5.00"),
		CurrencyCode: "USD",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, inactive.CategoryID).Return(&inactive, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.ErrorIs(err, services.ErrCategoryInactive)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnsupportedCurrency() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		CategoryID:   suite.sharedCategory.CategoryID,
		Amount:       decimal.RequireFromString("100.00"),
		CurrencyCode: "XXX",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.sharedCategory.CategoryID).Return(&suite.sharedCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_Success() {
	ctx := context.Background()
	existing := suite.newTransaction("-12.50")

	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(existing, nil).Once()

	txn, err := suite.service.GetTransactionByID(ctx, existing.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing.TransactionID, txn.TransactionID)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_SoftDeletedReadsAsNotFound() {
	ctx := context.Background()
	existing := suite.newTransaction("-12.50")
	deletedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	existing.DeletedAt = &deletedAt

	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(existing, nil).Once()

	_, err := suite.service.GetTransactionByID(ctx, existing.TransactionID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_OtherUserDenied() {
	ctx := context.Background()
	existing := suite.newTransaction("-12.50")

	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(existing, nil).Once()

	_, err := suite.service.GetTransactionByID(ctx, existing.TransactionID, uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_DefaultLimit() {
	ctx := context.Background()
	page := []domain.Transaction{*suite.newTransaction("-12.50")}

	suite.mockTxnRepo.On("ListTransactions", ctx, suite.userID, domain.BalanceFilter{}, 20, (*string)(nil)).Return(page, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.userID, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 1)
	suite.Nil(resp.NextToken)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_Success() {
	ctx := context.Background()
	existing := suite.newTransaction("-12.50")
	oldAmount := existing.Amount
	newAmount := decimal.RequireFromString("-20.00")
	req := dto.UpdateTransactionRequest{Amount: &newAmount}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(existing, nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.ownCategory.CategoryID).Return(&suite.ownCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx,
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.TransactionID == existing.TransactionID && txn.Amount.Equal(newAmount)
		}),
		mock.MatchedBy(func(rev domain.TransactionRevision) bool {
			return rev.Kind == domain.RevisionUpdate &&
				rev.OldAmount.Equal(oldAmount) &&
				rev.NewAmount.Equal(newAmount) &&
				rev.ChangedBy == suite.userID
		}),
	).Return(nil).Once()
	suite.mockInvalidator.On("InvalidateUser", suite.userID).Return().Once()

	txn, err := suite.service.UpdateTransaction(ctx, existing.TransactionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(txn.Amount.Equal(newAmount))
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockInvalidator.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_NoFields() {
	ctx := context.Background()
	existing := suite.newTransaction("-12.50")

	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(existing, nil).Once()

	_, err := suite.service.UpdateTransaction(ctx, existing.TransactionID, dto.UpdateTransactionRequest{}, suite.userID)

	suite.ErrorIs(err, services.ErrNoFieldsToUpdate)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_RevalidatesNewState() {
	ctx := context.Background()
	existing := suite.newTransaction("-12.50")
	positive := decimal.RequireFromString("12.50") // expense category, positive amount
	req := dto.UpdateTransactionRequest{Amount: &positive}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(existing, nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, suite.ownCategory.CategoryID).Return(&suite.ownCategory, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&suite.usd, nil).Once()

	_, err := suite.service.UpdateTransaction(ctx, existing.TransactionID, req, suite.userID)

	suite.ErrorIs(err, services.ErrAmountSign)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything, mock.Anything)
	suite.mockInvalidator.AssertNotCalled(suite.T(), "InvalidateUser", mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_Success() {
	ctx := context.Background()
	existing := suite.newTransaction("-40.00")

	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(existing, nil).Once()
	suite.mockTxnRepo.On("MarkTransactionDeleted", ctx, existing.TransactionID, suite.userID, mock.AnythingOfType("time.Time"),
		mock.MatchedBy(func(rev domain.TransactionRevision) bool {
			return rev.Kind == domain.RevisionDelete &&
				rev.OldAmount.Equal(existing.Amount) &&
				rev.ChangedBy == suite.userID
		}),
	).Return(nil).Once()
	suite.mockInvalidator.On("InvalidateUser", suite.userID).Return().Once()

	err := suite.service.DeleteTransaction(ctx, existing.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockInvalidator.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_AlreadyDeleted() {
	ctx := context.Background()
	existing := suite.newTransaction("-40.00")
	deletedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	existing.DeletedAt = &deletedAt

	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(existing, nil).Once()

	err := suite.service.DeleteTransaction(ctx, existing.TransactionID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "MarkTransactionDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestGetRevisions_ReadableAfterDelete() {
	ctx := context.Background()
	existing := suite.newTransaction("-40.00")
	deletedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	existing.DeletedAt = &deletedAt
	revisions := []domain.TransactionRevision{
		{RevisionID: uuid.NewString(), TransactionID: existing.TransactionID, Kind: domain.RevisionDelete},
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(existing, nil).Once()
	suite.mockTxnRepo.On("FindRevisionsByTransactionID", ctx, existing.TransactionID).Return(revisions, nil).Once()

	got, err := suite.service.GetRevisions(ctx, existing.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Len(got, 1)
	assert.Equal(suite.T(), domain.RevisionDelete, got[0].Kind)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
