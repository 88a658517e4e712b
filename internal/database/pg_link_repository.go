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
var _ interfaces.LinkRepository = (*pgLinkRepository)(nil)

type pgLinkRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgLinkRepository creates a PostgreSQL-backed link repository.
func NewPgLinkRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.LinkRepository {
	return &pgLinkRepository{
		db:     db,
		logger: logger.Named("PgLinkRepo"),
	}
}

const createLinkQuery = `
INSERT INTO links (id, user_id, title, url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const getLinkByIDQuery = `
SELECT id, user_id, title, url, created_at, updated_at
FROM links
WHERE id = $1`

const updateLinkQuery = `
UPDATE links
SET title = $2, url = $3, updated_at = $4
WHERE id = $1`

const listLinksByUserQuery = `
SELECT id, user_id, title, url, created_at, updated_at
FROM links
WHERE user_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

func (r *pgLinkRepository) Create(ctx context.Context, link *models.Link) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	now := time.Now().UTC()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	link.UpdatedAt = now

	_, err := r.db.Exec(ctx, createLinkQuery,
		link.ID, link.UserID, link.Title, link.URL, link.CreatedAt, link.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create link", zap.Error(err), zap.String("linkID", link.ID.String()))
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

func (r *pgLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	link := &models.Link{}
	err := r.db.QueryRow(ctx, getLinkByIDQuery, id).Scan(
		&link.ID, &link.UserID, &link.Title, &link.URL, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link %s: %w", id, err)
	}
	return link, nil
}

func (r *pgLinkRepository) Update(ctx context.Context, link *models.Link) error {
	link.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateLinkQuery,
		link.ID, link.Title, link.URL, link.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update link %s: %w", link.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteOwnedEntity(ctx, r.db, r.logger, "links", models.EntityLink, id)
}

func (r *pgLinkRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Link, error) {
	links := []models.Link{}
	if err := pgxscan.Select(ctx, r.db, &links, listLinksByUserQuery, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}
