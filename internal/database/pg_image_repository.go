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
var _ interfaces.ImageRepository = (*pgImageRepository)(nil)

// pgImageRepository stores image metadata only; payloads stay on disk under
// Dirname/Filename.
type pgImageRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgImageRepository creates a PostgreSQL-backed image metadata repository.
func NewPgImageRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ImageRepository {
	return &pgImageRepository{
		db:     db,
		logger: logger.Named("PgImageRepo"),
	}
}

const createImageQuery = `
INSERT INTO images (id, user_id, filename, dirname, size_bytes, mime_type, caption, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getImageByIDQuery = `
SELECT id, user_id, filename, dirname, size_bytes, mime_type, caption, created_at, updated_at
FROM images
WHERE id = $1`

const updateImageQuery = `
UPDATE images
SET filename = $2, dirname = $3, size_bytes = $4, mime_type = $5, caption = $6, updated_at = $7
WHERE id = $1`

const listImagesByUserQuery = `
SELECT id, user_id, filename, dirname, size_bytes, mime_type, caption, created_at, updated_at
FROM images
WHERE user_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

func (r *pgImageRepository) Create(ctx context.Context, image *models.Image) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	now := time.Now().UTC()
	if image.CreatedAt.IsZero() {
		image.CreatedAt = now
	}
	image.UpdatedAt = now

	_, err := r.db.Exec(ctx, createImageQuery,
		image.ID, image.UserID, image.Filename, image.Dirname, image.SizeBytes,
		image.MimeType, image.Caption, image.CreatedAt, image.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create image", zap.Error(err), zap.String("imageID", image.ID.String()))
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

func (r *pgImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	image := &models.Image{}
	err := r.db.QueryRow(ctx, getImageByIDQuery, id).Scan(
		&image.ID, &image.UserID, &image.Filename, &image.Dirname, &image.SizeBytes,
		&image.MimeType, &image.Caption, &image.CreatedAt, &image.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get image %s: %w", id, err)
	}
	return image, nil
}

func (r *pgImageRepository) Update(ctx context.Context, image *models.Image) error {
	image.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateImageQuery,
		image.ID, image.Filename, image.Dirname, image.SizeBytes,
		image.MimeType, image.Caption, image.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update image %s: %w", image.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteOwnedEntity(ctx, r.db, r.logger, "images", models.EntityImage, id)
}

func (r *pgImageRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Image, error) {
	images := []models.Image{}
	if err := pgxscan.Select(ctx, r.db, &images, listImagesByUserQuery, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}
