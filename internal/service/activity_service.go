package service

import (
	"context"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// ActivityService is the read surface over the append-only activity log.
type ActivityService struct {
	base
}

// NewActivityService creates the activity controller.
func NewActivityService(deps Deps) *ActivityService {
	return &ActivityService{base: newBase(deps, "ActivityService")}
}

// ListByUser returns the user's activity, newest first.
func (s *ActivityService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Activities.ListByUser(ctx, userID, limit, offset)
}

// ListByEntity returns the history of one entity, newest first.
func (s *ActivityService) ListByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID, limit int) ([]models.Activity, error) {
	if !entityType.Valid() {
		return nil, models.ErrValidation
	}
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Activities.ListByEntity(ctx, entityType, entityID, limit)
}
