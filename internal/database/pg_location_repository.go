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
var _ interfaces.LocationRepository = (*pgLocationRepository)(nil)

type pgLocationRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgLocationRepository creates a PostgreSQL-backed location repository.
func NewPgLocationRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.LocationRepository {
	return &pgLocationRepository{
		db:     db,
		logger: logger.Named("PgLocationRepo"),
	}
}

const createLocationQuery = `
INSERT INTO locations (id, user_id, name, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const getLocationByIDQuery = `
SELECT id, user_id, name, description, created_at, updated_at
FROM locations
WHERE id = $1`

const updateLocationQuery = `
UPDATE locations
SET name = $2, description = $3, updated_at = $4
WHERE id = $1`

const listLocationsByUserQuery = `
SELECT id, user_id, name, description, created_at, updated_at
FROM locations
WHERE user_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

func (r *pgLocationRepository) Create(ctx context.Context, location *models.Location) error {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	now := time.Now().UTC()
	if location.CreatedAt.IsZero() {
		location.CreatedAt = now
	}
	location.UpdatedAt = now

	_, err := r.db.Exec(ctx, createLocationQuery,
		location.ID, location.UserID, location.Name, location.Description,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create location", zap.Error(err), zap.String("locationID", location.ID.String()))
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

func (r *pgLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	location := &models.Location{}
	err := r.db.QueryRow(ctx, getLocationByIDQuery, id).Scan(
		&location.ID, &location.UserID, &location.Name, &location.Description,
		&location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get location %s: %w", id, err)
	}
	return location, nil
}

func (r *pgLocationRepository) Update(ctx context.Context, location *models.Location) error {
	location.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateLocationQuery,
		location.ID, location.Name, location.Description, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update location %s: %w", location.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteOwnedEntity(ctx, r.db, r.logger, "locations", models.EntityLocation, id)
}

func (r *pgLocationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Location, error) {
	locations := []models.Location{}
	if err := pgxscan.Select(ctx, r.db, &locations, listLocationsByUserQuery, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}
