package service

import (
	"context"
	"fmt"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/metrics"
	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps bundles everything the controllers share. Cache and Metrics may be
// nil; both are best-effort concerns.
type Deps struct {
	Stories        interfaces.StoryRepository
	Chapters       interfaces.ChapterRepository
	Scenes         interfaces.SceneRepository
	Characters     interfaces.CharacterRepository
	Events         interfaces.EventRepository
	Locations      interfaces.LocationRepository
	Notes          interfaces.NoteRepository
	Links          interfaces.LinkRepository
	Images         interfaces.ImageRepository
	Authors        interfaces.AuthorRepository
	Bibliographies interfaces.BibliographyRepository
	Submissions    interfaces.SubmissionRepository
	Users          interfaces.UserRepository
	Relations      interfaces.RelationRepository
	Activities     interfaces.ActivityRepository
	Cache          interfaces.SnapshotCache
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
}

// base carries the cross-cutting behaviors of every controller: the
// activity log, mutation counters and snapshot invalidation.
type base struct {
	deps   Deps
	logger *zap.Logger
}

func newBase(deps Deps, name string) base {
	return base{
		deps:   deps,
		logger: deps.Logger.Named(name),
	}
}

// recordActivity appends the audit row for a mutation. Failures are logged
// and swallowed: the mutation itself already committed.
func (b *base) recordActivity(ctx context.Context, userID uuid.UUID, entityType models.EntityType, entityID uuid.UUID, op models.OperationKind, summary string) {
	if len(summary) > 250 {
		summary = summary[:250]
	}
	activity := &models.Activity{
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  op,
		Summary:    summary,
	}
	if err := b.deps.Activities.Append(ctx, activity); err != nil {
		b.logger.Warn("Failed to record activity", zap.Error(err),
			zap.String("entityType", string(entityType)), zap.String("operation", string(op)))
	}
	if b.deps.Metrics != nil {
		b.deps.Metrics.Mutations.WithLabelValues(string(entityType), string(op)).Inc()
	}
}

// invalidateStory drops the cached snapshot of one story.
func (b *base) invalidateStory(ctx context.Context, storyID uuid.UUID) {
	if b.deps.Cache == nil || storyID == uuid.Nil {
		return
	}
	if err := b.deps.Cache.Invalidate(ctx, storyID); err != nil {
		b.logger.Warn("Failed to invalidate story snapshot", zap.Error(err),
			zap.String("storyID", storyID.String()))
	}
}

// invalidateOwners drops cached snapshots of every story that embeds the
// entity, directly or through its chapter/scene parent chain.
func (b *base) invalidateOwners(ctx context.Context, entityType models.EntityType, id uuid.UUID) {
	if b.deps.Cache == nil {
		return
	}
	switch entityType {
	case models.EntityStory:
		b.invalidateStory(ctx, id)
	case models.EntityChapter:
		chapter, err := b.deps.Chapters.GetByID(ctx, id)
		if err != nil {
			return
		}
		b.invalidateStory(ctx, chapter.StoryID)
	case models.EntityScene:
		scene, err := b.deps.Scenes.GetByID(ctx, id)
		if err != nil {
			return
		}
		chapter, err := b.deps.Chapters.GetByID(ctx, scene.ChapterID)
		if err != nil {
			return
		}
		b.invalidateStory(ctx, chapter.StoryID)
	default:
		storyIDs, err := b.deps.Relations.OwnerIDs(ctx, entityType, id, models.EntityStory)
		if err != nil {
			b.logger.Warn("Failed to resolve owning stories", zap.Error(err),
				zap.String("entityType", string(entityType)), zap.String("entityID", id.String()))
			return
		}
		for _, storyID := range storyIDs {
			b.invalidateStory(ctx, storyID)
		}
	}
}

// exists verifies an entity reference before it is attached or linked.
func (b *base) exists(ctx context.Context, entityType models.EntityType, id uuid.UUID) error {
	var err error
	switch entityType {
	case models.EntityStory:
		_, err = b.deps.Stories.GetByID(ctx, id)
	case models.EntityChapter:
		_, err = b.deps.Chapters.GetByID(ctx, id)
	case models.EntityScene:
		_, err = b.deps.Scenes.GetByID(ctx, id)
	case models.EntityCharacter:
		_, err = b.deps.Characters.GetByID(ctx, id)
	case models.EntityEvent:
		_, err = b.deps.Events.GetByID(ctx, id)
	case models.EntityLocation:
		_, err = b.deps.Locations.GetByID(ctx, id)
	case models.EntityNote:
		_, err = b.deps.Notes.GetByID(ctx, id)
	case models.EntityLink:
		_, err = b.deps.Links.GetByID(ctx, id)
	case models.EntityImage:
		_, err = b.deps.Images.GetByID(ctx, id)
	case models.EntityAuthor:
		_, err = b.deps.Authors.GetByID(ctx, id)
	case models.EntityBibliography:
		_, err = b.deps.Bibliographies.GetByID(ctx, id)
	case models.EntitySubmission:
		_, err = b.deps.Submissions.GetByID(ctx, id)
	default:
		return fmt.Errorf("unknown entity type %q: %w", entityType, models.ErrValidation)
	}
	return err
}
