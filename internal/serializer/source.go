package serializer

import (
	"context"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// SourceProvider hands the serializer a Source scoped to one consistent
// read. The production implementation opens a transaction per View call so
// a document reflects a single snapshot; test fakes just invoke fn
// directly.
type SourceProvider interface {
	View(ctx context.Context, fn func(Source) error) error
}

// Source is the read surface the serializer walks.
type Source interface {
	Story(ctx context.Context, id uuid.UUID) (*models.Story, error)
	ChaptersByStory(ctx context.Context, storyID uuid.UUID) ([]models.Chapter, error)
	Chapter(ctx context.Context, id uuid.UUID) (*models.Chapter, error)
	ScenesByChapter(ctx context.Context, chapterID uuid.UUID) ([]models.Scene, error)
	Scene(ctx context.Context, id uuid.UUID) (*models.Scene, error)

	Character(ctx context.Context, id uuid.UUID) (*models.Character, error)
	TraitsByCharacter(ctx context.Context, characterID uuid.UUID) ([]models.CharacterTrait, error)
	RelationshipsByCharacter(ctx context.Context, characterID uuid.UUID) ([]models.CharacterRelationship, error)

	Event(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Location(ctx context.Context, id uuid.UUID) (*models.Location, error)
	Note(ctx context.Context, id uuid.UUID) (*models.Note, error)
	Link(ctx context.Context, id uuid.UUID) (*models.Link, error)
	Image(ctx context.Context, id uuid.UUID) (*models.Image, error)
	Author(ctx context.Context, id uuid.UUID) (*models.Author, error)
	Bibliography(ctx context.Context, id uuid.UUID) (*models.Bibliography, error)
	Submission(ctx context.Context, id uuid.UUID) (*models.Submission, error)

	BibliographiesByStory(ctx context.Context, storyID uuid.UUID) ([]models.Bibliography, error)
	SubmissionsByStory(ctx context.Context, storyID uuid.UUID) ([]models.Submission, error)

	// RelatedIDs lists attached far-side ids in attachment (position) order.
	RelatedIDs(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType) ([]uuid.UUID, error)
}
