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
var _ interfaces.EventRepository = (*pgEventRepository)(nil)

type pgEventRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgEventRepository creates a PostgreSQL-backed event repository.
func NewPgEventRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.EventRepository {
	return &pgEventRepository{
		db:     db,
		logger: logger.Named("PgEventRepo"),
	}
}

const createEventQuery = `
INSERT INTO events (id, user_id, title, description, start_datetime, end_datetime, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const getEventByIDQuery = `
SELECT id, user_id, title, description, start_datetime, end_datetime, created_at, updated_at
FROM events
WHERE id = $1`

const updateEventQuery = `
UPDATE events
SET title = $2, description = $3, start_datetime = $4, end_datetime = $5, updated_at = $6
WHERE id = $1`

const listEventsByUserQuery = `
SELECT id, user_id, title, description, start_datetime, end_datetime, created_at, updated_at
FROM events
WHERE user_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

func (r *pgEventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	_, err := r.db.Exec(ctx, createEventQuery,
		event.ID, event.UserID, event.Title, event.Description,
		event.StartDatetime, event.EndDatetime, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create event", zap.Error(err), zap.String("eventID", event.ID.String()))
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *pgEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event := &models.Event{}
	err := r.db.QueryRow(ctx, getEventByIDQuery, id).Scan(
		&event.ID, &event.UserID, &event.Title, &event.Description,
		&event.StartDatetime, &event.EndDatetime, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}
	return event, nil
}

func (r *pgEventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateEventQuery,
		event.ID, event.Title, event.Description,
		event.StartDatetime, event.EndDatetime, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes the event and every join row pointing at it.
func (r *pgEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteOwnedEntity(ctx, r.db, r.logger, "events", models.EntityEvent, id)
}

func (r *pgEventRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Event, error) {
	events := []models.Event{}
	if err := pgxscan.Select(ctx, r.db, &events, listEventsByUserQuery, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// deleteOwnedEntity deletes one row from a flat entity table and removes its
// polymorphic join rows on both sides, in one transaction. The table name is
// a trusted constant, never user input.
func deleteOwnedEntity(ctx context.Context, db interfaces.DBTX, logger *zap.Logger, table string, entityType models.EntityType, id uuid.UUID) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteAllRelationsForQuery, entityType, id); err != nil {
		return fmt.Errorf("failed to delete relations: %w", err)
	}
	tag, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", entityType, id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	logger.Info("Entity deleted",
		zap.String("entityType", string(entityType)), zap.String("entityID", id.String()))
	return nil
}
