package interfaces

import (
	"context"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// StoryRepository persists stories.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error)
	Update(ctx context.Context, story *models.Story) error
	// Delete removes the story. With cascade it also removes chapters,
	// scenes and every relation row touching the subtree, atomically;
	// without cascade it returns models.ErrConflict if chapters exist.
	Delete(ctx context.Context, id uuid.UUID, cascade bool) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Story, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Story, error)
}

// ChapterRepository persists chapters and keeps their positions contiguous
// per story.
type ChapterRepository interface {
	// Create inserts the chapter at chapter.Position, shifting later
	// siblings; position 0 means append at end. Runs in one transaction.
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	// Delete closes the position gap. With cascade it removes owned scenes
	// and their relation rows; without cascade it returns
	// models.ErrConflict if scenes exist.
	Delete(ctx context.Context, id uuid.UUID, cascade bool) error
	// Move repositions the chapter within its story, shifting siblings so
	// positions stay contiguous and unique. Atomic.
	Move(ctx context.Context, id uuid.UUID, position int) error
	ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Chapter, error)
	CountByStory(ctx context.Context, storyID uuid.UUID) (int, error)
}

// SceneRepository persists scenes and keeps their positions contiguous per
// chapter.
type SceneRepository interface {
	Create(ctx context.Context, scene *models.Scene) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Scene, error)
	Update(ctx context.Context, scene *models.Scene) error
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, id uuid.UUID, position int) error
	ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]models.Scene, error)
	CountByChapter(ctx context.Context, chapterID uuid.UUID) (int, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Scene, error)
}

// RelationRepository persists the polymorphic many-to-many joins.
type RelationRepository interface {
	// Attach appends the edge at the end of its (owner, related type)
	// group. An already-existing edge is models.ErrConflict.
	Attach(ctx context.Context, rel *models.Relation) error
	Detach(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType, relatedID uuid.UUID) error
	// RelatedIDs lists the far-side ids in position order.
	RelatedIDs(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType) ([]uuid.UUID, error)
	// OwnerIDs lists the near-side ids for a given related entity.
	OwnerIDs(ctx context.Context, relatedType models.EntityType, relatedID uuid.UUID, ownerType models.EntityType) ([]uuid.UUID, error)
	// DeleteAllFor removes every edge with the entity on either side.
	// Called when the entity itself is deleted.
	DeleteAllFor(ctx context.Context, entityType models.EntityType, id uuid.UUID) error
}

// ActivityRepository persists the audit/conversation log.
type ActivityRepository interface {
	Append(ctx context.Context, activity *models.Activity) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Activity, error)
	// ListBySession returns dispatch turns for one assistant session,
	// newest first, capped at limit (0 means no rows).
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.Activity, error)
	ListByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID, limit int) ([]models.Activity, error)
}
