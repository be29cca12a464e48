package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrack-app/fintrack_backend/internal/apperrors"
	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrack-app/fintrack_backend/internal/core/ports/repositories"
	"github.com/fintrack-app/fintrack_backend/internal/models"
	"github.com/fintrack-app/fintrack_backend/internal/utils/mapping"
)

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(db *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, user_id, name, kind, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var m models.Category
	err := row.Scan(
		&m.CategoryID,
		&m.UserID,
		&m.Name,
		&m.Kind,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		INSERT INTO categories (category_id, user_id, name, kind, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CategoryID,
		m.UserID,
		m.Name,
		m.Kind,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isPgErrorCode(err, pgUniqueViolation) {
			return fmt.Errorf("category %q (%s): %w", category.Name, category.Kind, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 AND is_active = TRUE;`
	m, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	c := mapping.ToDomainCategory(*m)
	return &c, nil
}

// ListCategoriesForUser returns the user's own categories plus the shared
// defaults (NULL user_id), shared first, then by name.
func (r *PgxCategoryRepository) ListCategoriesForUser(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE is_active = TRUE AND (user_id = $1 OR user_id IS NULL)
		ORDER BY user_id NULLS FIRST, name ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	modelCategories := []models.Category{}
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		modelCategories = append(modelCategories, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", rows.Err())
	}

	return mapping.ToDomainCategorySlice(modelCategories), nil
}

func (r *PgxCategoryRepository) CountTransactionsForCategory(ctx context.Context, categoryID string) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE category_id = $1 AND deleted_at IS NULL;`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for category %s: %w", categoryID, err)
	}
	return count, nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		UPDATE categories
		SET name = $1, last_updated_at = $2, last_updated_by = $3
		WHERE category_id = $4 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.Name, m.LastUpdatedAt, m.LastUpdatedBy, m.CategoryID)
	if err != nil {
		if isPgErrorCode(err, pgUniqueViolation) {
			return fmt.Errorf("category %q: %w", category.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("category not found or inactive: %w", apperrors.ErrNotFound)
	}
	return nil
}

// DeactivateCategory soft-deletes a category. The referencing-transactions
// check runs inside the same statement so a concurrent insert cannot slip in
// between a count and the update.
func (r *PgxCategoryRepository) DeactivateCategory(ctx context.Context, categoryID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE categories
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE category_id = $3 AND is_active = TRUE
		AND NOT EXISTS (
			SELECT 1 FROM transactions WHERE category_id = $3 AND deleted_at IS NULL
		);
	`
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, categoryID)
	if err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish missing from still-referenced.
		count, countErr := r.CountTransactionsForCategory(ctx, categoryID)
		if countErr == nil && count > 0 {
			return fmt.Errorf("category %s still referenced by transactions: %w", categoryID, apperrors.ErrConstraint)
		}
		return fmt.Errorf("category not found or inactive: %w", apperrors.ErrNotFound)
	}
	return nil
}
