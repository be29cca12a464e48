package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
)

// Service-level sentinels wrap the apperrors taxonomy so the HTTP layer maps
// them without knowing about transaction semantics.
var (
	ErrFutureDate       = fmt.Errorf("%w: transaction date is beyond the allowed future tolerance", apperrors.ErrValidation)
	ErrAmountSign       = fmt.Errorf("%w: amount sign does not match category kind", apperrors.ErrInvalidAmount)
	ErrCategoryInactive = fmt.Errorf("%w: category is inactive", apperrors.ErrValidation)
	ErrNoFieldsToUpdate = fmt.Errorf("%w: no fields provided for update", apperrors.ErrValidation)
)

// maxAbsAmount bounds the representable amount range.
var maxAbsAmount = decimal.New(1, 12) // 10^12

// transactionService mediates all ledger mutations. Every write is validated,
// applied atomically by the repository, and followed by a synchronous balance
// cache invalidation for the owning user.
type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	guard        portssvc.AccessGuardSvc
	invalidator  portssvc.BalanceInvalidator

	futureDateTolerance time.Duration
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	guard portssvc.AccessGuardSvc,
	invalidator portssvc.BalanceInvalidator,
	futureDateTolerance time.Duration,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:             txnRepo,
		categoryRepo:        categoryRepo,
		currencyRepo:        currencyRepo,
		guard:               guard,
		invalidator:         invalidator,
		futureDateTolerance: futureDateTolerance,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// validateAmount checks that the amount is non-zero, within the representable
// range, within the currency's precision, and signed consistently with the
// category kind (income positive, expense negative).
func (s *transactionService) validateAmount(amount decimal.Decimal, currency *domain.Currency, kind domain.CategoryKind) error {
	if amount.IsZero() {
		return fmt.Errorf("%w: amount must not be zero", apperrors.ErrInvalidAmount)
	}
	if amount.Abs().GreaterThan(maxAbsAmount) {
		return fmt.Errorf("%w: amount exceeds representable range", apperrors.ErrInvalidAmount)
	}
	if int(-amount.Exponent()) > currency.Precision {
		return fmt.Errorf("%w: amount has more than %d fractional digits", apperrors.ErrInvalidAmount, currency.Precision)
	}
	switch kind {
	case domain.Income:
		if amount.IsNegative() {
			return fmt.Errorf("%w: income amounts must be positive", ErrAmountSign)
		}
	case domain.Expense:
		if amount.IsPositive() {
			return fmt.Errorf("%w: expense amounts must be negative", ErrAmountSign)
		}
	default:
		return fmt.Errorf("%w: unknown category kind %q", apperrors.ErrValidation, kind)
	}
	return nil
}

// validateDate rejects dates further in the future than the configured tolerance.
func (s *transactionService) validateDate(date time.Time, now time.Time) error {
	if date.After(now.Add(s.futureDateTolerance)) {
		return fmt.Errorf("%w: %s", ErrFutureDate, date.Format(time.RFC3339))
	}
	return nil
}

// resolveCategory fetches the category and checks the caller may reference it.
func (s *transactionService) resolveCategory(ctx context.Context, categoryID string, userID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
		}
		return nil, fmt.Errorf("failed to fetch category %s: %w", categoryID, err)
	}
	if err := s.guard.AuthorizeCategoryUse(ctx, userID, category); err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrCategoryInactive, categoryID)
	}
	return category, nil
}

// CreateTransaction validates and persists a new transaction.
// A repeated idempotency key returns the previously created transaction
// instead of double-applying the mutation.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	if req.IdempotencyKey != "" {
		existing, err := s.txnRepo.FindTransactionByIdempotencyKey(ctx, requestingUserID, req.IdempotencyKey)
		if err == nil {
			s.LogInfo(ctx, "Idempotent replay, returning existing transaction",
				slog.String("transaction_id", existing.TransactionID))
			return existing, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	category, err := s.resolveCategory(ctx, req.CategoryID, requestingUserID)
	if err != nil {
		return nil, err
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to fetch currency %s: %w", req.CurrencyCode, err)
	}

	if err := s.validateAmount(req.Amount, currency, category.Kind); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.validateDate(req.Date, now); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:  uuid.NewString(),
		UserID:         requestingUserID,
		CategoryID:     category.CategoryID,
		Amount:         req.Amount,
		CurrencyCode:   currency.CurrencyCode,
		Date:           req.Date,
		Note:           req.Note,
		IdempotencyKey: req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		// A concurrent retry with the same key may have won the race; the
		// stored transaction is the authoritative result either way.
		if errors.Is(err, apperrors.ErrDuplicate) && req.IdempotencyKey != "" {
			existing, findErr := s.txnRepo.FindTransactionByIdempotencyKey(ctx, requestingUserID, req.IdempotencyKey)
			if findErr == nil {
				return existing, nil
			}
		}
		s.LogError(ctx, err, "Failed to save transaction", slog.String("user_id", requestingUserID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.invalidator.InvalidateUser(requestingUserID)

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("category_id", txn.CategoryID))
	return &txn, nil
}

// GetTransactionByID retrieves a transaction the caller owns.
// Soft-deleted transactions read as not found.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string, requestingUserID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if err := s.guard.AuthorizeOwner(ctx, requestingUserID, txn.UserID); err != nil {
		return nil, err
	}
	if txn.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

// ListTransactions retrieves a filtered, paginated page of the caller's transactions.
func (s *transactionService) ListTransactions(ctx context.Context, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, requestingUserID, params.Filter(), limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("user_id", requestingUserID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// GetRevisions returns the audit trail of a transaction the caller owns.
// The trail remains readable after the transaction is soft-deleted.
func (s *transactionService) GetRevisions(ctx context.Context, transactionID string, requestingUserID string) ([]domain.TransactionRevision, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if err := s.guard.AuthorizeOwner(ctx, requestingUserID, txn.UserID); err != nil {
		return nil, err
	}
	return s.txnRepo.FindRevisionsByTransactionID(ctx, transactionID)
}

// UpdateTransaction applies partial changes to a transaction the caller owns,
// recording a revision that preserves the old and new values. The balance
// moves by exactly the delta between the two amounts.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if err := s.guard.AuthorizeOwner(ctx, requestingUserID, txn.UserID); err != nil {
		return nil, err
	}
	if txn.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}

	old := *txn

	updated := false
	if req.CategoryID != nil && *req.CategoryID != txn.CategoryID {
		txn.CategoryID = *req.CategoryID
		updated = true
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
		updated = true
	}
	if req.Date != nil {
		txn.Date = *req.Date
		updated = true
	}
	if req.Note != nil {
		txn.Note = *req.Note
		updated = true
	}
	if !updated {
		return nil, ErrNoFieldsToUpdate
	}

	// Re-validate the full new state, not just the changed fields.
	category, err := s.resolveCategory(ctx, txn.CategoryID, requestingUserID)
	if err != nil {
		return nil, err
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, txn.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch currency %s: %w", txn.CurrencyCode, err)
	}
	if err := s.validateAmount(txn.Amount, currency, category.Kind); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.validateDate(txn.Date, now); err != nil {
		return nil, err
	}

	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = requestingUserID

	revision := domain.TransactionRevision{
		RevisionID:    uuid.NewString(),
		TransactionID: txn.TransactionID,
		Kind:          domain.RevisionUpdate,
		OldAmount:     old.Amount,
		NewAmount:     txn.Amount,
		OldCategoryID: old.CategoryID,
		NewCategoryID: txn.CategoryID,
		OldDate:       old.Date,
		NewDate:       txn.Date,
		OldNote:       old.Note,
		NewNote:       txn.Note,
		ChangedAt:     now,
		ChangedBy:     requestingUserID,
	}

	if err := s.txnRepo.UpdateTransaction(ctx, *txn, revision); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.invalidator.InvalidateUser(requestingUserID)

	s.LogInfo(ctx, "Transaction updated",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("old_amount", old.Amount.String()),
		slog.String("new_amount", txn.Amount.String()))
	return txn, nil
}

// DeleteTransaction soft-deletes a transaction the caller owns. The row stays
// in the ledger for audit purposes but is excluded from every aggregation.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, requestingUserID string) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if err := s.guard.AuthorizeOwner(ctx, requestingUserID, txn.UserID); err != nil {
		return err
	}
	if txn.IsDeleted() {
		return apperrors.ErrNotFound
	}

	now := time.Now().UTC()
	revision := domain.TransactionRevision{
		RevisionID:    uuid.NewString(),
		TransactionID: txn.TransactionID,
		Kind:          domain.RevisionDelete,
		OldAmount:     txn.Amount,
		NewAmount:     decimal.Zero,
		OldCategoryID: txn.CategoryID,
		NewCategoryID: txn.CategoryID,
		OldDate:       txn.Date,
		NewDate:       txn.Date,
		OldNote:       txn.Note,
		NewNote:       txn.Note,
		ChangedAt:     now,
		ChangedBy:     requestingUserID,
	}

	if err := s.txnRepo.MarkTransactionDeleted(ctx, transactionID, requestingUserID, now, revision); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.invalidator.InvalidateUser(requestingUserID)

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}
