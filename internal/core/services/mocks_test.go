package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
)

// MockUserRepository is a mock implementation of the UserRepositoryFacade.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

func (m *MockUserRepository) FindCredentialsByEmail(ctx context.Context, email string) (string, string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiry *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) FindRefreshToken(ctx context.Context, userID string) (*string, *time.Time, error) {
	args := m.Called(ctx, userID)
	var hash *string
	var expiry *time.Time
	if args.Get(0) != nil {
		hash = args.Get(0).(*string)
	}
	if args.Get(1) != nil {
		expiry = args.Get(1).(*time.Time)
	}
	return hash, expiry, args.Error(2)
}

// MockCategoryRepository is a mock implementation of the CategoryRepositoryFacade.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategoriesForUser(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountTransactionsForCategory(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeactivateCategory(ctx context.Context, categoryID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, categoryID, deletedBy, deletedAt)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of the TransactionRepositoryFacade.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.BalanceFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, filter, limit, nextToken)
	var txns []domain.Transaction
	var token *string
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) FindRevisionsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionRevision, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionRevision), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, revision domain.TransactionRevision) error {
	args := m.Called(ctx, txn, revision)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkTransactionDeleted(ctx context.Context, transactionID string, deletedBy string, deletedAt time.Time, revision domain.TransactionRevision) error {
	args := m.Called(ctx, transactionID, deletedBy, deletedAt, revision)
	return args.Error(0)
}

// MockBalanceRepository is a mock implementation of the BalanceRepositoryFacade.
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) SumTransactions(ctx context.Context, userID string, filter domain.BalanceFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceRepository) SumByCategory(ctx context.Context, userID string, filter domain.BalanceFilter) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

// MockCurrencyRepository is a mock implementation of the CurrencyRepositoryFacade.
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

// MockBalanceInvalidator records synchronous cache invalidations.
type MockBalanceInvalidator struct {
	mock.Mock
}

func (m *MockBalanceInvalidator) InvalidateUser(userID string) {
	m.Called(userID)
}
