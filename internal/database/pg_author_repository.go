package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.AuthorRepository = (*pgAuthorRepository)(nil)

type pgAuthorRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgAuthorRepository creates a PostgreSQL-backed author repository.
func NewPgAuthorRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.AuthorRepository {
	return &pgAuthorRepository{
		db:     db,
		logger: logger.Named("PgAuthorRepo"),
	}
}

const createAuthorQuery = `
INSERT INTO authors (id, user_id, name, initials, is_pseudonym, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const getAuthorByIDQuery = `
SELECT id, user_id, name, initials, is_pseudonym, created_at, updated_at
FROM authors
WHERE id = $1`

const getAuthorByNameQuery = `
SELECT id, user_id, name, initials, is_pseudonym, created_at, updated_at
FROM authors
WHERE user_id = $1 AND name = $2`

const updateAuthorQuery = `
UPDATE authors
SET name = $2, initials = $3, is_pseudonym = $4, updated_at = $5
WHERE id = $1`

const listAuthorsByUserQuery = `
SELECT id, user_id, name, initials, is_pseudonym, created_at, updated_at
FROM authors
WHERE user_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

func (r *pgAuthorRepository) Create(ctx context.Context, author *models.Author) error {
	if author.ID == uuid.Nil {
		author.ID = uuid.New()
	}
	now := time.Now().UTC()
	if author.CreatedAt.IsZero() {
		author.CreatedAt = now
	}
	author.UpdatedAt = now

	_, err := r.db.Exec(ctx, createAuthorQuery,
		author.ID, author.UserID, author.Name, author.Initials, author.IsPseudonym,
		author.CreatedAt, author.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create author", zap.Error(err), zap.String("authorID", author.ID.String()))
		return fmt.Errorf("failed to create author: %w", err)
	}
	return nil
}

func (r *pgAuthorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	author := &models.Author{}
	err := r.db.QueryRow(ctx, getAuthorByIDQuery, id).Scan(
		&author.ID, &author.UserID, &author.Name, &author.Initials, &author.IsPseudonym,
		&author.CreatedAt, &author.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get author %s: %w", id, err)
	}
	return author, nil
}

func (r *pgAuthorRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*models.Author, error) {
	author := &models.Author{}
	err := r.db.QueryRow(ctx, getAuthorByNameQuery, userID, name).Scan(
		&author.ID, &author.UserID, &author.Name, &author.Initials, &author.IsPseudonym,
		&author.CreatedAt, &author.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get author %q: %w", name, err)
	}
	return author, nil
}

func (r *pgAuthorRepository) Update(ctx context.Context, author *models.Author) error {
	author.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateAuthorQuery,
		author.ID, author.Name, author.Initials, author.IsPseudonym, author.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update author %s: %w", author.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgAuthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteOwnedEntity(ctx, r.db, r.logger, "authors", models.EntityAuthor, id)
}

func (r *pgAuthorRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Author, error) {
	authors := []models.Author{}
	if err := pgxscan.Select(ctx, r.db, &authors, listAuthorsByUserQuery, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return authors, nil
}
