package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Relation is one polymorphic many-to-many join row: owner (type, id) to
// related (type, id). It collapses the per-pair join tables of the domain
// (note-on-story, link-on-scene, character-in-story, event-at-location,
// portrait-of-character, author-of-story, ...) into a single keyed edge
// set. Position orders edges of the same (owner, related type) group.
type Relation struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OwnerType   EntityType `db:"owner_type" json:"ownerType"`
	OwnerID     uuid.UUID  `db:"owner_id" json:"ownerId"`
	RelatedType EntityType `db:"related_type" json:"relatedType"`
	RelatedID   uuid.UUID  `db:"related_id" json:"relatedId"`
	Position    int        `db:"position" json:"position"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// attachable lists which related types each owner type accepts.
var attachable = map[EntityType]map[EntityType]struct{}{
	EntityStory: {
		EntityAuthor: {}, EntityCharacter: {}, EntityEvent: {},
		EntityLocation: {}, EntityNote: {}, EntityLink: {},
	},
	EntityChapter:   {EntityNote: {}, EntityLink: {}},
	EntityScene:     {EntityNote: {}, EntityLink: {}},
	EntityCharacter: {EntityEvent: {}, EntityImage: {}, EntityNote: {}, EntityLink: {}},
	EntityEvent:     {EntityLocation: {}, EntityNote: {}, EntityLink: {}},
	EntityLocation:  {EntityImage: {}, EntityNote: {}, EntityLink: {}},
	EntityBibliography: {
		EntityAuthor: {},
	},
}

// Validate checks the edge against the closed owner/related type matrix.
func (r *Relation) Validate() error {
	if r.OwnerID == uuid.Nil || r.RelatedID == uuid.Nil {
		return fmt.Errorf("a relation needs both endpoints: %w", ErrValidation)
	}
	allowed, ok := attachable[r.OwnerType]
	if !ok {
		return fmt.Errorf("%s does not accept attachments: %w", r.OwnerType, ErrValidation)
	}
	if _, ok := allowed[r.RelatedType]; !ok {
		return fmt.Errorf("%s cannot attach to %s: %w", r.RelatedType, r.OwnerType, ErrValidation)
	}
	return nil
}

// CanAttach reports whether related may attach to owner.
func CanAttach(owner, related EntityType) bool {
	allowed, ok := attachable[owner]
	if !ok {
		return false
	}
	_, ok = allowed[related]
	return ok
}
