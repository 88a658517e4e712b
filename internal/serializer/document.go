package serializer

import (
	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// Documents are the export shape of the domain. Key order is fixed by
// struct field order so repeated serialization of unchanged data is
// byte-identical. Child slots typed as []any hold either full documents or
// Ref stubs; an entity already emitted in the current walk appears only as
// its stub.

// Ref is the cycle stub: an entity revisited within one serialization call.
type Ref struct {
	Type models.EntityType `json:"type"`
	ID   uuid.UUID         `json:"id"`
	Ref  bool              `json:"ref"`
}

// StoryDocument is the full aggregate export of a story.
type StoryDocument struct {
	Type           models.EntityType      `json:"type"`
	ID             uuid.UUID              `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Authors        []any                  `json:"authors"`
	Chapters       []any                  `json:"chapters"`
	Characters     []any                  `json:"characters"`
	Events         []any                  `json:"events"`
	Locations      []any                  `json:"locations"`
	Notes          []any                  `json:"notes"`
	Links          []any                  `json:"links"`
	Bibliographies []any                  `json:"bibliographies"`
	Submissions    []SubmissionDocument   `json:"submissions"`
}

// ChapterDocument carries the chapter and its scenes in position order.
type ChapterDocument struct {
	Type        models.EntityType `json:"type"`
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Position    int               `json:"position"`
	Scenes      []any             `json:"scenes"`
	Notes       []any             `json:"notes"`
	Links       []any             `json:"links"`
}

// SceneDocument includes the prose body.
type SceneDocument struct {
	Type        models.EntityType `json:"type"`
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	Position    int               `json:"position"`
	Notes       []any             `json:"notes"`
	Links       []any             `json:"links"`
}

// CharacterDocument includes traits in position order and typed
// relationships whose far side may be a stub when the walk loops back.
type CharacterDocument struct {
	Type          models.EntityType      `json:"type"`
	ID            uuid.UUID              `json:"id"`
	Honorific     string                 `json:"honorific"`
	FirstName     string                 `json:"firstName"`
	MiddleName    string                 `json:"middleName"`
	LastName      string                 `json:"lastName"`
	Description   string                 `json:"description"`
	Traits        []TraitDocument        `json:"traits"`
	Relationships []RelationshipDocument `json:"relationships"`
	Events        []any                  `json:"events"`
	Images        []any                  `json:"images"`
	Notes         []any                  `json:"notes"`
	Links         []any                  `json:"links"`
}

// TraitDocument is a scored character trait.
type TraitDocument struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Magnitude int       `json:"magnitude"`
	Position  int       `json:"position"`
}

// RelationshipDocument links two characters; Related is a full
// CharacterDocument or a Ref.
type RelationshipDocument struct {
	ID           uuid.UUID               `json:"id"`
	RelationType models.RelationshipType `json:"relationType"`
	Description  string                  `json:"description"`
	Position     int                     `json:"position"`
	Related      any                     `json:"related"`
}

// EventDocument carries display datetimes and attached locations.
type EventDocument struct {
	Type          models.EntityType `json:"type"`
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	StartDatetime string            `json:"startDatetime"`
	EndDatetime   string            `json:"endDatetime"`
	Locations     []any             `json:"locations"`
	Notes         []any             `json:"notes"`
	Links         []any             `json:"links"`
}

// LocationDocument is a place with its gallery.
type LocationDocument struct {
	Type        models.EntityType `json:"type"`
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Images      []any             `json:"images"`
	Notes       []any             `json:"notes"`
	Links       []any             `json:"links"`
}

// NoteDocument is a leaf.
type NoteDocument struct {
	Type    models.EntityType `json:"type"`
	ID      uuid.UUID         `json:"id"`
	Title   string            `json:"title"`
	Content string            `json:"content"`
}

// LinkDocument is a leaf.
type LinkDocument struct {
	Type  models.EntityType `json:"type"`
	ID    uuid.UUID         `json:"id"`
	Title string            `json:"title"`
	URL   string            `json:"url"`
}

// ImageDocument carries the on-disk path as a content reference; the
// payload is never inlined.
type ImageDocument struct {
	Type      models.EntityType    `json:"type"`
	ID        uuid.UUID            `json:"id"`
	Path      string               `json:"path"`
	SizeBytes int64                `json:"sizeBytes"`
	MimeType  models.ImageMimeType `json:"mimeType"`
	Caption   string               `json:"caption"`
}

// AuthorDocument is a leaf.
type AuthorDocument struct {
	Type        models.EntityType `json:"type"`
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Initials    string            `json:"initials"`
	IsPseudonym bool              `json:"isPseudonym"`
}

// BibliographyDocument is a reference work with its authors.
type BibliographyDocument struct {
	Type            models.EntityType `json:"type"`
	ID              uuid.UUID         `json:"id"`
	Title           string            `json:"title"`
	Pages           string            `json:"pages"`
	Publisher       string            `json:"publisher"`
	PublicationDate string            `json:"publicationDate"`
	Authors         []any             `json:"authors"`
}

// SubmissionDocument is a leaf.
type SubmissionDocument struct {
	Type     models.EntityType       `json:"type"`
	ID       uuid.UUID               `json:"id"`
	Market   string                  `json:"market"`
	DateSent string                  `json:"dateSent"`
	Result   models.SubmissionResult `json:"result"`
	Amount   float64                 `json:"amount"`
}
