package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Character is a person appearing in one or more stories. Story membership,
// event participation, portraits, notes and links attach through the
// relation table; traits and typed relationships are owned rows.
type Character struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"userId"`
	Honorific   string    `db:"honorific" json:"honorific"`
	FirstName   string    `db:"first_name" json:"firstName"`
	MiddleName  string    `db:"middle_name" json:"middleName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Name returns the character's display name in natural order.
func (c *Character) Name() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.Honorific, c.FirstName, c.MiddleName, c.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Validate requires at least one name component.
func (c *Character) Validate() error {
	c.Honorific = strings.TrimSpace(c.Honorific)
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.MiddleName = strings.TrimSpace(c.MiddleName)
	c.LastName = strings.TrimSpace(c.LastName)
	if c.Name() == "" {
		return fmt.Errorf("a character needs at least one name component: %w", ErrValidation)
	}
	if len(c.Description) > maxTextLen {
		return fmt.Errorf("character description exceeds %d characters: %w", maxTextLen, ErrValidation)
	}
	return nil
}

// CharacterTrait is one entry of a character's ordered trait list.
type CharacterTrait struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CharacterID uuid.UUID `db:"character_id" json:"characterId"`
	Name        string    `db:"name" json:"name"`
	Magnitude   int       `db:"magnitude" json:"magnitude"`
	Position    int       `db:"position" json:"position"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks the trait name and magnitude range.
func (t *CharacterTrait) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("a trait name is required: %w", ErrValidation)
	}
	if t.Magnitude < 0 || t.Magnitude > 100 {
		return fmt.Errorf("trait magnitude must be between 0 and 100: %w", ErrValidation)
	}
	return nil
}

// CharacterRelationship is a typed, directed character-to-character edge.
// The graph is cyclic by nature; the serializer renders revisits as stubs.
type CharacterRelationship struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	ParentID    uuid.UUID        `db:"parent_id" json:"parentId"`
	RelatedID   uuid.UUID        `db:"related_id" json:"relatedId"`
	Type        RelationshipType `db:"relation_type" json:"type"`
	Description string           `db:"description" json:"description"`
	Position    int              `db:"position" json:"position"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}

// Validate checks both endpoints and the relationship type.
func (r *CharacterRelationship) Validate() error {
	if r.ParentID == uuid.Nil || r.RelatedID == uuid.Nil {
		return fmt.Errorf("a relationship needs both characters: %w", ErrValidation)
	}
	if r.ParentID == r.RelatedID {
		return fmt.Errorf("a character cannot relate to itself: %w", ErrValidation)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("unknown relationship type %q: %w", r.Type, ErrValidation)
	}
	return nil
}
