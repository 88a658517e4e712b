package interfaces

import (
	"context"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// CharacterRepository persists characters together with their ordered trait
// lists and typed relationships.
type CharacterRepository interface {
	Create(ctx context.Context, character *models.Character) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Character, error)
	Update(ctx context.Context, character *models.Character) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Character, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Character, error)

	CreateTrait(ctx context.Context, trait *models.CharacterTrait) error
	UpdateTrait(ctx context.Context, trait *models.CharacterTrait) error
	MoveTrait(ctx context.Context, id uuid.UUID, position int) error
	DeleteTrait(ctx context.Context, id uuid.UUID) error
	TraitsByCharacter(ctx context.Context, characterID uuid.UUID) ([]models.CharacterTrait, error)

	CreateRelationship(ctx context.Context, rel *models.CharacterRelationship) error
	UpdateRelationship(ctx context.Context, rel *models.CharacterRelationship) error
	MoveRelationship(ctx context.Context, id uuid.UUID, position int) error
	DeleteRelationship(ctx context.Context, id uuid.UUID) error
	RelationshipsByCharacter(ctx context.Context, parentID uuid.UUID) ([]models.CharacterRelationship, error)
	GetRelationship(ctx context.Context, id uuid.UUID) (*models.CharacterRelationship, error)
	GetTrait(ctx context.Context, id uuid.UUID) (*models.CharacterTrait, error)
}

// EventRepository persists events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Event, error)
}

// LocationRepository persists locations.
type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Location, error)
}

// NoteRepository persists notes.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Note, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Note, error)
}

// LinkRepository persists links.
type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Link, error)
	Update(ctx context.Context, link *models.Link) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Link, error)
}

// ImageRepository persists image metadata; payloads stay on disk.
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error)
	Update(ctx context.Context, image *models.Image) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Image, error)
}

// AuthorRepository persists authors and pen names.
type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*models.Author, error)
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Author, error)
}

// BibliographyRepository persists reference works per story.
type BibliographyRepository interface {
	Create(ctx context.Context, entry *models.Bibliography) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bibliography, error)
	Update(ctx context.Context, entry *models.Bibliography) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Bibliography, error)
}

// SubmissionRepository persists submission records per story.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Submission, error)
}

// UserRepository persists the local operator account.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// SnapshotCache caches serialized story documents. Implementations must be
// safe to skip entirely; a nil cache disables caching.
type SnapshotCache interface {
	Get(ctx context.Context, storyID uuid.UUID) ([]byte, error)
	Set(ctx context.Context, storyID uuid.UUID, document []byte) error
	Invalidate(ctx context.Context, storyID uuid.UUID) error
}
