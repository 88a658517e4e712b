package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.UserRepository = (*pgUserRepository)(nil)

type pgUserRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a PostgreSQL-backed user repository.
func NewPgUserRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

const createUserQuery = `
INSERT INTO users (id, username, display_name, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const getUserByIDQuery = `
SELECT id, username, display_name, email, password_hash, created_at, updated_at
FROM users
WHERE id = $1`

const getUserByUsernameQuery = `
SELECT id, username, display_name, email, password_hash, created_at, updated_at
FROM users
WHERE username = $1`

const updateUserQuery = `
UPDATE users
SET display_name = $2, email = $3, password_hash = $4, updated_at = $5
WHERE id = $1`

func (r *pgUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.db.Exec(ctx, createUserQuery,
		user.ID, user.Username, user.DisplayName, user.Email, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.Error(err), zap.String("username", user.Username))
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.Info("User created", zap.String("userID", user.ID.String()))
	return nil
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, getUserByIDQuery, id).Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return user, nil
}

func (r *pgUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, getUserByUsernameQuery, username).Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return user, nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateUserQuery,
		user.ID, user.DisplayName, user.Email, user.PasswordHash, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
