package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrack-app/fintrack_backend/internal/utils/pagination"
)

// Ledger is an in-memory implementation of the repository facades, used by
// tests and local development without a database. Mutations are serialized
// per user the same way the postgres implementation serializes them with a
// user row lock.
type Ledger struct {
	mu sync.RWMutex

	users          map[string]domain.User
	passwordHashes map[string]string
	refreshHashes  map[string]*string
	refreshExpiry  map[string]*time.Time

	categories map[string]domain.Category

	transactions   map[string]domain.Transaction
	idempotencyIdx map[string]string // userID|key -> transactionID
	revisions      map[string][]domain.TransactionRevision

	currencies map[string]domain.Currency

	userLocksMu sync.Mutex
	userLocks   map[string]*sync.Mutex
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		users:          make(map[string]domain.User),
		passwordHashes: make(map[string]string),
		refreshHashes:  make(map[string]*string),
		refreshExpiry:  make(map[string]*time.Time),
		categories:     make(map[string]domain.Category),
		transactions:   make(map[string]domain.Transaction),
		idempotencyIdx: make(map[string]string),
		revisions:      make(map[string][]domain.TransactionRevision),
		currencies:     make(map[string]domain.Currency),
	}
}

// NewRepositoryProvider exposes one ledger through every repository facade.
func NewRepositoryProvider(ledger *Ledger) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:        ledger,
		CategoryRepo:    ledger,
		TransactionRepo: ledger,
		BalanceRepo:     ledger,
		CurrencyRepo:    ledger,
	}
}

var (
	_ portsrepo.UserRepositoryFacade        = (*Ledger)(nil)
	_ portsrepo.CategoryRepositoryFacade    = (*Ledger)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Ledger)(nil)
	_ portsrepo.BalanceRepositoryFacade     = (*Ledger)(nil)
	_ portsrepo.CurrencyRepositoryFacade    = (*Ledger)(nil)
)

// userLock returns the mutex that serializes mutations for one user.
func (l *Ledger) userLock(userID string) *sync.Mutex {
	l.userLocksMu.Lock()
	defer l.userLocksMu.Unlock()
	if l.userLocks == nil {
		l.userLocks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.userLocks[userID] = lock
	}
	return lock
}

func idempotencyKey(userID, key string) string {
	return userID + "|" + key
}

// checkCategoryActive enforces the category referential constraint on writes,
// matching the foreign key plus active check the postgres store applies inside
// its write transaction. Callers must hold l.mu.
func (l *Ledger) checkCategoryActive(categoryID string) error {
	category, ok := l.categories[categoryID]
	if !ok {
		return fmt.Errorf("category %s: %w", categoryID, apperrors.ErrNotFound)
	}
	if !category.IsActive {
		return fmt.Errorf("category %s is inactive: %w", categoryID, apperrors.ErrConstraint)
	}
	return nil
}

// --- UserRepositoryFacade ---

func (l *Ledger) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.users {
		if existing.DeletedAt == nil && strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("user with email %s: %w", user.Email, apperrors.ErrDuplicate)
		}
	}
	l.users[user.UserID] = user
	l.passwordHashes[user.UserID] = passwordHash
	return nil
}

func (l *Ledger) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	user, ok := l.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (l *Ledger) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, user := range l.users {
		if user.DeletedAt == nil && strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (l *Ledger) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	users := make([]domain.User, 0, len(l.users))
	for _, user := range l.users {
		if user.DeletedAt == nil {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if offset >= len(users) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], nil
}

func (l *Ledger) UpdateUser(ctx context.Context, user domain.User) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	existing, ok := l.users[user.UserID]
	if !ok || existing.DeletedAt != nil {
		return apperrors.ErrNotFound
	}
	l.users[user.UserID] = user
	return nil
}

func (l *Ledger) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	user, ok := l.users[userID]
	if !ok || user.DeletedAt != nil {
		return apperrors.ErrNotFound
	}
	user.DeletedAt = &deletedAt
	user.LastUpdatedAt = deletedAt
	user.LastUpdatedBy = deletedBy
	l.users[userID] = user
	delete(l.refreshHashes, userID)
	delete(l.refreshExpiry, userID)
	return nil
}

func (l *Ledger) FindCredentialsByEmail(ctx context.Context, email string) (string, string, error) {
	user, err := l.FindUserByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return user.UserID, l.passwordHashes[user.UserID], nil
}

func (l *Ledger) UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiry *time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	user, ok := l.users[userID]
	if !ok || user.DeletedAt != nil {
		return apperrors.ErrNotFound
	}
	l.refreshHashes[userID] = tokenHash
	l.refreshExpiry[userID] = expiry
	return nil
}

func (l *Ledger) FindRefreshToken(ctx context.Context, userID string) (*string, *time.Time, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	user, ok := l.users[userID]
	if !ok || user.DeletedAt != nil {
		return nil, nil, apperrors.ErrNotFound
	}
	return l.refreshHashes[userID], l.refreshExpiry[userID], nil
}

// --- CategoryRepositoryFacade ---

func (l *Ledger) SaveCategory(ctx context.Context, category domain.Category) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.categories {
		if existing.IsActive &&
			existing.UserID == category.UserID &&
			existing.Kind == category.Kind &&
			strings.EqualFold(existing.Name, category.Name) {
			return fmt.Errorf("category %q (%s): %w", category.Name, category.Kind, apperrors.ErrDuplicate)
		}
	}
	l.categories[category.CategoryID] = category
	return nil
}

func (l *Ledger) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	category, ok := l.categories[categoryID]
	if !ok || !category.IsActive {
		return nil, apperrors.ErrNotFound
	}
	return &category, nil
}

func (l *Ledger) ListCategoriesForUser(ctx context.Context, userID string) ([]domain.Category, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	categories := []domain.Category{}
	for _, category := range l.categories {
		if category.IsActive && (category.UserID == userID || category.IsShared()) {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].IsShared() != categories[j].IsShared() {
			return categories[i].IsShared()
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (l *Ledger) CountTransactionsForCategory(ctx context.Context, categoryID string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var count int64
	for _, txn := range l.transactions {
		if txn.CategoryID == categoryID && !txn.IsDeleted() {
			count++
		}
	}
	return count, nil
}

func (l *Ledger) UpdateCategory(ctx context.Context, category domain.Category) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	existing, ok := l.categories[category.CategoryID]
	if !ok || !existing.IsActive {
		return apperrors.ErrNotFound
	}
	l.categories[category.CategoryID] = category
	return nil
}

func (l *Ledger) DeactivateCategory(ctx context.Context, categoryID string, deletedBy string, deletedAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	category, ok := l.categories[categoryID]
	if !ok || !category.IsActive {
		return apperrors.ErrNotFound
	}
	for _, txn := range l.transactions {
		if txn.CategoryID == categoryID && !txn.IsDeleted() {
			return fmt.Errorf("category %s still referenced by transactions: %w", categoryID, apperrors.ErrConstraint)
		}
	}
	category.IsActive = false
	category.LastUpdatedAt = deletedAt
	category.LastUpdatedBy = deletedBy
	l.categories[categoryID] = category
	return nil
}

// --- TransactionRepositoryFacade ---

func (l *Ledger) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	lock := l.userLock(txn.UserID)
	lock.Lock()
	defer lock.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if user, ok := l.users[txn.UserID]; !ok || user.DeletedAt != nil {
		return fmt.Errorf("user %s: %w", txn.UserID, apperrors.ErrNotFound)
	}
	if err := l.checkCategoryActive(txn.CategoryID); err != nil {
		return err
	}
	if txn.IdempotencyKey != "" {
		if _, exists := l.idempotencyIdx[idempotencyKey(txn.UserID, txn.IdempotencyKey)]; exists {
			return fmt.Errorf("idempotency key already used: %w", apperrors.ErrDuplicate)
		}
	}

	l.transactions[txn.TransactionID] = txn
	if txn.IdempotencyKey != "" {
		l.idempotencyIdx[idempotencyKey(txn.UserID, txn.IdempotencyKey)] = txn.TransactionID
	}
	return nil
}

func (l *Ledger) UpdateTransaction(ctx context.Context, txn domain.Transaction, revision domain.TransactionRevision) error {
	lock := l.userLock(txn.UserID)
	lock.Lock()
	defer lock.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.transactions[txn.TransactionID]
	if !ok || existing.IsDeleted() {
		return apperrors.ErrNotFound
	}
	if err := l.checkCategoryActive(txn.CategoryID); err != nil {
		return err
	}
	l.transactions[txn.TransactionID] = txn
	l.revisions[txn.TransactionID] = append(l.revisions[txn.TransactionID], revision)
	return nil
}

func (l *Ledger) MarkTransactionDeleted(ctx context.Context, transactionID string, deletedBy string, deletedAt time.Time, revision domain.TransactionRevision) error {
	l.mu.RLock()
	existing, ok := l.transactions[transactionID]
	l.mu.RUnlock()
	if !ok {
		return apperrors.ErrNotFound
	}

	lock := l.userLock(existing.UserID)
	lock.Lock()
	defer lock.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok = l.transactions[transactionID]
	if !ok || existing.IsDeleted() {
		return apperrors.ErrNotFound
	}
	existing.DeletedAt = &deletedAt
	existing.LastUpdatedAt = deletedAt
	existing.LastUpdatedBy = deletedBy
	l.transactions[transactionID] = existing
	l.revisions[transactionID] = append(l.revisions[transactionID], revision)
	return nil
}

func (l *Ledger) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	txn, ok := l.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (l *Ledger) FindTransactionByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	transactionID, ok := l.idempotencyIdx[idempotencyKey(userID, key)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	txn := l.transactions[transactionID]
	return &txn, nil
}

func (l *Ledger) matchesFilter(txn domain.Transaction, filter domain.BalanceFilter) bool {
	if filter.CategoryID != "" && txn.CategoryID != filter.CategoryID {
		return false
	}
	if filter.Kind != "" {
		category, ok := l.categories[txn.CategoryID]
		if !ok || category.Kind != filter.Kind {
			return false
		}
	}
	if filter.From != nil && txn.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && txn.Date.After(*filter.To) {
		return false
	}
	return true
}

func (l *Ledger) ListTransactions(ctx context.Context, userID string, filter domain.BalanceFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	txns := []domain.Transaction{}
	for _, txn := range l.transactions {
		if txn.UserID == userID && !txn.IsDeleted() && l.matchesFilter(txn, filter) {
			txns = append(txns, txn)
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.After(txns[j].Date)
		}
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})

	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filtered := txns[:0]
		for _, txn := range txns {
			if txn.Date.Before(cursorDate) ||
				(txn.Date.Equal(cursorDate) && txn.CreatedAt.Before(cursorCreatedAt)) {
				filtered = append(filtered, txn)
			}
		}
		txns = filtered
	}

	var newNextToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		newNextToken = &token
	}

	return txns, newNextToken, nil
}

func (l *Ledger) FindRevisionsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionRevision, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	revisions := l.revisions[transactionID]
	out := make([]domain.TransactionRevision, len(revisions))
	copy(out, revisions)
	return out, nil
}

// --- BalanceRepositoryFacade ---

func (l *Ledger) SumTransactions(ctx context.Context, userID string, filter domain.BalanceFilter) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := decimal.Zero
	for _, txn := range l.transactions {
		if txn.UserID == userID && !txn.IsDeleted() && l.matchesFilter(txn, filter) {
			total = total.Add(txn.Amount)
		}
	}
	return total, nil
}

func (l *Ledger) SumByCategory(ctx context.Context, userID string, filter domain.BalanceFilter) ([]domain.CategoryTotal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	byCategory := map[string]domain.CategoryTotal{}
	for _, txn := range l.transactions {
		if txn.UserID != userID || txn.IsDeleted() || !l.matchesFilter(txn, filter) {
			continue
		}
		entry, ok := byCategory[txn.CategoryID]
		if !ok {
			category := l.categories[txn.CategoryID]
			entry = domain.CategoryTotal{
				CategoryID:   txn.CategoryID,
				CategoryName: category.Name,
				Kind:         category.Kind,
				Total:        decimal.Zero,
			}
		}
		entry.Total = entry.Total.Add(txn.Amount)
		byCategory[txn.CategoryID] = entry
	}

	totals := make([]domain.CategoryTotal, 0, len(byCategory))
	for _, entry := range byCategory {
		totals = append(totals, entry)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Kind != totals[j].Kind {
			return totals[i].Kind < totals[j].Kind
		}
		return totals[i].CategoryName < totals[j].CategoryName
	})
	return totals, nil
}

// --- CurrencyRepositoryFacade ---

func (l *Ledger) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.currencies[currency.CurrencyCode]; exists {
		return fmt.Errorf("currency %s: %w", currency.CurrencyCode, apperrors.ErrDuplicate)
	}
	l.currencies[currency.CurrencyCode] = currency
	return nil
}

func (l *Ledger) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	currency, ok := l.currencies[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &currency, nil
}

func (l *Ledger) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	currencies := make([]domain.Currency, 0, len(l.currencies))
	for _, currency := range l.currencies {
		currencies = append(currencies, currency)
	}
	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i].CurrencyCode < currencies[j].CurrencyCode
	})
	return currencies, nil
}
