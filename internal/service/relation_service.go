package service

import (
	"context"
	"fmt"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// RelationService manages the polymorphic attach/detach surface shared by
// every entity pair the attachment matrix allows.
type RelationService struct {
	base
}

// NewRelationService creates the relation controller.
func NewRelationService(deps Deps) *RelationService {
	return &RelationService{base: newBase(deps, "RelationService")}
}

// Attach links related to owner, appending at the end of the owner's list
// for that related type. Both entities must exist, the pair must be allowed
// by the attachment matrix, and duplicates are models.ErrConflict.
func (s *RelationService) Attach(ctx context.Context, userID uuid.UUID, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType, relatedID uuid.UUID) error {
	rel := &models.Relation{
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		RelatedType: relatedType,
		RelatedID:   relatedID,
	}
	if err := rel.Validate(); err != nil {
		return err
	}
	if err := s.exists(ctx, ownerType, ownerID); err != nil {
		return err
	}
	if err := s.exists(ctx, relatedType, relatedID); err != nil {
		return err
	}
	if err := s.deps.Relations.Attach(ctx, rel); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, ownerType, ownerID, models.OpAttach,
		fmt.Sprintf("Attached %s to %s", relatedType, ownerType))
	s.invalidateOwners(ctx, ownerType, ownerID)
	return nil
}

// Detach removes one attachment edge.
func (s *RelationService) Detach(ctx context.Context, userID uuid.UUID, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType, relatedID uuid.UUID) error {
	if err := s.deps.Relations.Detach(ctx, ownerType, ownerID, relatedType, relatedID); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, ownerType, ownerID, models.OpDetach,
		fmt.Sprintf("Detached %s from %s", relatedType, ownerType))
	s.invalidateOwners(ctx, ownerType, ownerID)
	return nil
}

// Related lists the attached far-side ids in attachment order.
func (s *RelationService) Related(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType) ([]uuid.UUID, error) {
	if !models.CanAttach(ownerType, relatedType) {
		return nil, fmt.Errorf("%s cannot hold %s attachments: %w", ownerType, relatedType, models.ErrValidation)
	}
	return s.deps.Relations.RelatedIDs(ctx, ownerType, ownerID, relatedType)
}
