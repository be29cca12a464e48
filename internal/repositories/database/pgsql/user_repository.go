package pgsql

import (
	"context"
	"database/sql"
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

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, name, email, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, name, email, password_hash, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		passwordHash,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isPgErrorCode(err, pgUniqueViolation) {
			return fmt.Errorf("user with email %s: %w", user.Email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	u := mapping.ToDomainUser(*m)
	return &u, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL;`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	u := mapping.ToDomainUser(*m)
	return &u, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	modelUsers := []models.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		modelUsers = append(modelUsers, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}

	return mapping.ToDomainUserSlice(modelUsers), nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET name = $1, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $4 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.Name, m.LastUpdatedAt, m.LastUpdatedBy, m.UserID)
	if err != nil {
		return fmt.Errorf("failed to execute update user query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE users
		SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2, refresh_token_hash = NULL, refresh_token_expiry_time = NULL
		WHERE user_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, userID)
	if err != nil {
		return fmt.Errorf("failed to mark user as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) FindCredentialsByEmail(ctx context.Context, email string) (string, string, error) {
	query := `SELECT user_id, password_hash FROM users WHERE email = $1 AND deleted_at IS NULL;`
	var userID, passwordHash string
	err := r.Pool.QueryRow(ctx, query, email).Scan(&userID, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperrors.ErrNotFound
		}
		return "", "", fmt.Errorf("failed to find credentials: %w", err)
	}
	return userID, passwordHash, nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiry *time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expiry_time = $2
		WHERE user_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, tokenHash, expiry, userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) FindRefreshToken(ctx context.Context, userID string) (*string, *time.Time, error) {
	query := `SELECT refresh_token_hash, refresh_token_expiry_time FROM users WHERE user_id = $1 AND deleted_at IS NULL;`
	var hash sql.NullString
	var expiry sql.NullTime
	err := r.Pool.QueryRow(ctx, query, userID).Scan(&hash, &expiry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	var hashPtr *string
	var expiryPtr *time.Time
	if hash.Valid {
		hashPtr = &hash.String
	}
	if expiry.Valid {
		expiryPtr = &expiry.Time
	}
	return hashPtr, expiryPtr, nil
}
