package database

import (
	"context"
	"fmt"
	"time"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.ActivityRepository = (*pgActivityRepository)(nil)

// pgActivityRepository is append-only. Rows are never updated or deleted;
// dispatch rows double as assistant conversation history.
type pgActivityRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgActivityRepository creates a PostgreSQL-backed activity log.
func NewPgActivityRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ActivityRepository {
	return &pgActivityRepository{
		db:     db,
		logger: logger.Named("PgActivityRepo"),
	}
}

const appendActivityQuery = `
INSERT INTO activities (id, user_id, entity_type, entity_id, operation, summary, session_id, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const listActivitiesByUserQuery = `
SELECT id, user_id, entity_type, entity_id, operation, summary, session_id, detail, created_at
FROM activities
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

const listActivitiesBySessionQuery = `
SELECT id, user_id, entity_type, entity_id, operation, summary, session_id, detail, created_at
FROM activities
WHERE session_id = $1 AND operation = 'dispatch'
ORDER BY created_at DESC, id DESC
LIMIT $2`

const listActivitiesByEntityQuery = `
SELECT id, user_id, entity_type, entity_id, operation, summary, session_id, detail, created_at
FROM activities
WHERE entity_type = $1 AND entity_id = $2
ORDER BY created_at DESC, id DESC
LIMIT $3`

func (r *pgActivityRepository) Append(ctx context.Context, activity *models.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, appendActivityQuery,
		activity.ID, activity.UserID, activity.EntityType, activity.EntityID,
		activity.Operation, activity.Summary, activity.SessionID, activity.Detail,
		activity.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append activity", zap.Error(err),
			zap.String("operation", string(activity.Operation)))
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

func (r *pgActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Activity, error) {
	activities := []models.Activity{}
	if err := pgxscan.Select(ctx, r.db, &activities, listActivitiesByUserQuery, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// ListBySession returns the dispatch turns of one assistant session, newest
// first. limit 0 returns no rows.
func (r *pgActivityRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		return []models.Activity{}, nil
	}
	activities := []models.Activity{}
	if err := pgxscan.Select(ctx, r.db, &activities, listActivitiesBySessionQuery, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to list session activities: %w", err)
	}
	return activities, nil
}

func (r *pgActivityRepository) ListByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID, limit int) ([]models.Activity, error) {
	activities := []models.Activity{}
	if err := pgxscan.Select(ctx, r.db, &activities, listActivitiesByEntityQuery, entityType, entityID, limit); err != nil {
		return nil, fmt.Errorf("failed to list entity activities: %w", err)
	}
	return activities, nil
}
