package models

import "fmt"

// EntityType tags every persisted record kind. The polymorphic relation
// table and the Activity log reference entities by (type, id) pairs.
type EntityType string

const (
	EntityStory        EntityType = "story"
	EntityChapter      EntityType = "chapter"
	EntityScene        EntityType = "scene"
	EntityCharacter    EntityType = "character"
	EntityEvent        EntityType = "event"
	EntityLocation     EntityType = "location"
	EntityNote         EntityType = "note"
	EntityLink         EntityType = "link"
	EntityImage        EntityType = "image"
	EntityAuthor       EntityType = "author"
	EntityBibliography EntityType = "bibliography"
	EntitySubmission   EntityType = "submission"
	EntityUser         EntityType = "user"
)

var entityTypes = map[EntityType]struct{}{
	EntityStory:        {},
	EntityChapter:      {},
	EntityScene:        {},
	EntityCharacter:    {},
	EntityEvent:        {},
	EntityLocation:     {},
	EntityNote:         {},
	EntityLink:         {},
	EntityImage:        {},
	EntityAuthor:       {},
	EntityBibliography: {},
	EntitySubmission:   {},
	EntityUser:         {},
}

// Valid reports whether t is one of the closed set of entity tags.
func (t EntityType) Valid() bool {
	_, ok := entityTypes[t]
	return ok
}

// ParseEntityType converts a string tag into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown entity type %q: %w", s, ErrValidation)
	}
	return t, nil
}
