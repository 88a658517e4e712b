package database

import (
	"context"
	"fmt"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"
	"gnatwriter/internal/serializer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ serializer.SourceProvider = (*SnapshotProvider)(nil)

// SnapshotProvider gives the serializer a read surface scoped to a single
// transaction, so a walked document never mixes data from before and after
// a concurrent mutation.
type SnapshotProvider struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewSnapshotProvider creates a transaction-per-walk source provider.
func NewSnapshotProvider(db interfaces.DBTX, logger *zap.Logger) *SnapshotProvider {
	return &SnapshotProvider{
		db:     db,
		logger: logger,
	}
}

// View runs fn against repositories bound to one transaction. The
// transaction is read-only in effect; it commits on success purely to
// release the snapshot.
func (p *SnapshotProvider) View(ctx context.Context, fn func(serializer.Source) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	src := &txSource{
		stories:        NewPgStoryRepository(tx, p.logger),
		chapters:       NewPgChapterRepository(tx, p.logger),
		scenes:         NewPgSceneRepository(tx, p.logger),
		characters:     NewPgCharacterRepository(tx, p.logger),
		events:         NewPgEventRepository(tx, p.logger),
		locations:      NewPgLocationRepository(tx, p.logger),
		notes:          NewPgNoteRepository(tx, p.logger),
		links:          NewPgLinkRepository(tx, p.logger),
		images:         NewPgImageRepository(tx, p.logger),
		authors:        NewPgAuthorRepository(tx, p.logger),
		bibliographies: NewPgBibliographyRepository(tx, p.logger),
		submissions:    NewPgSubmissionRepository(tx, p.logger),
		relations:      NewPgRelationRepository(tx, p.logger),
	}
	if err := fn(src); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// txSource adapts the repositories to the serializer's read surface.
type txSource struct {
	stories        interfaces.StoryRepository
	chapters       interfaces.ChapterRepository
	scenes         interfaces.SceneRepository
	characters     interfaces.CharacterRepository
	events         interfaces.EventRepository
	locations      interfaces.LocationRepository
	notes          interfaces.NoteRepository
	links          interfaces.LinkRepository
	images         interfaces.ImageRepository
	authors        interfaces.AuthorRepository
	bibliographies interfaces.BibliographyRepository
	submissions    interfaces.SubmissionRepository
	relations      interfaces.RelationRepository
}

func (s *txSource) Story(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	return s.stories.GetByID(ctx, id)
}

func (s *txSource) ChaptersByStory(ctx context.Context, storyID uuid.UUID) ([]models.Chapter, error) {
	return s.chapters.ListByStory(ctx, storyID)
}

func (s *txSource) Chapter(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	return s.chapters.GetByID(ctx, id)
}

func (s *txSource) ScenesByChapter(ctx context.Context, chapterID uuid.UUID) ([]models.Scene, error) {
	return s.scenes.ListByChapter(ctx, chapterID)
}

func (s *txSource) Scene(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	return s.scenes.GetByID(ctx, id)
}

func (s *txSource) Character(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	return s.characters.GetByID(ctx, id)
}

func (s *txSource) TraitsByCharacter(ctx context.Context, characterID uuid.UUID) ([]models.CharacterTrait, error) {
	return s.characters.TraitsByCharacter(ctx, characterID)
}

func (s *txSource) RelationshipsByCharacter(ctx context.Context, characterID uuid.UUID) ([]models.CharacterRelationship, error) {
	return s.characters.RelationshipsByCharacter(ctx, characterID)
}

func (s *txSource) Event(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *txSource) Location(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	return s.locations.GetByID(ctx, id)
}

func (s *txSource) Note(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	return s.notes.GetByID(ctx, id)
}

func (s *txSource) Link(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	return s.links.GetByID(ctx, id)
}

func (s *txSource) Image(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	return s.images.GetByID(ctx, id)
}

func (s *txSource) Author(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	return s.authors.GetByID(ctx, id)
}

func (s *txSource) Bibliography(ctx context.Context, id uuid.UUID) (*models.Bibliography, error) {
	return s.bibliographies.GetByID(ctx, id)
}

func (s *txSource) Submission(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	return s.submissions.GetByID(ctx, id)
}

func (s *txSource) BibliographiesByStory(ctx context.Context, storyID uuid.UUID) ([]models.Bibliography, error) {
	return s.bibliographies.ListByStory(ctx, storyID)
}

func (s *txSource) SubmissionsByStory(ctx context.Context, storyID uuid.UUID) ([]models.Submission, error) {
	return s.submissions.ListByStory(ctx, storyID)
}

func (s *txSource) RelatedIDs(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType) ([]uuid.UUID, error) {
	return s.relations.RelatedIDs(ctx, ownerType, ownerID, relatedType)
}
