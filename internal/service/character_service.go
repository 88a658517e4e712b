package service

import (
	"context"
	"fmt"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// CharacterService manages characters, their ordered trait lists and typed
// character-to-character relationships.
type CharacterService struct {
	base
}

// NewCharacterService creates the character controller.
func NewCharacterService(deps Deps) *CharacterService {
	return &CharacterService{base: newBase(deps, "CharacterService")}
}

// Create validates and persists a new character.
func (s *CharacterService) Create(ctx context.Context, userID uuid.UUID, character models.Character) (*models.Character, error) {
	character.ID = uuid.Nil
	character.UserID = userID
	if err := character.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Characters.Create(ctx, &character); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, character.ID, models.OpCreate,
		fmt.Sprintf("Created character %q", character.Name()))
	return &character, nil
}

// GetByID returns one character.
func (s *CharacterService) GetByID(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	return s.deps.Characters.GetByID(ctx, id)
}

// Update rewrites the character's name fields and description.
func (s *CharacterService) Update(ctx context.Context, userID uuid.UUID, updated models.Character) (*models.Character, error) {
	character, err := s.deps.Characters.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	character.Honorific = updated.Honorific
	character.FirstName = updated.FirstName
	character.MiddleName = updated.MiddleName
	character.LastName = updated.LastName
	character.Description = updated.Description
	if err := character.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Characters.Update(ctx, character); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, character.ID, models.OpUpdate,
		fmt.Sprintf("Updated character %q", character.Name()))
	s.invalidateOwners(ctx, models.EntityCharacter, character.ID)
	return character, nil
}

// Delete removes the character with its traits, relationships and join
// rows.
func (s *CharacterService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.invalidateOwners(ctx, models.EntityCharacter, id)
	if err := s.deps.Characters.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, id, models.OpDelete, "Deleted character")
	return nil
}

// List returns the user's characters.
func (s *CharacterService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Character, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Characters.ListByUser(ctx, userID, limit, offset)
}

// Search matches names and descriptions.
func (s *CharacterService) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Character, error) {
	return s.deps.Characters.Search(ctx, userID, query)
}

// AddTrait appends or inserts a scored trait; position 0 appends.
func (s *CharacterService) AddTrait(ctx context.Context, userID, characterID uuid.UUID, name string, magnitude, position int) (*models.CharacterTrait, error) {
	if _, err := s.deps.Characters.GetByID(ctx, characterID); err != nil {
		return nil, err
	}
	trait := &models.CharacterTrait{
		CharacterID: characterID,
		Name:        name,
		Magnitude:   magnitude,
		Position:    position,
	}
	if err := trait.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Characters.CreateTrait(ctx, trait); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, characterID, models.OpUpdate,
		fmt.Sprintf("Added trait %q", trait.Name))
	s.invalidateOwners(ctx, models.EntityCharacter, characterID)
	return trait, nil
}

// UpdateTrait rewrites a trait's name and magnitude.
func (s *CharacterService) UpdateTrait(ctx context.Context, userID, traitID uuid.UUID, name string, magnitude int) (*models.CharacterTrait, error) {
	trait, err := s.deps.Characters.GetTrait(ctx, traitID)
	if err != nil {
		return nil, err
	}
	trait.Name = name
	trait.Magnitude = magnitude
	if err := trait.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Characters.UpdateTrait(ctx, trait); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, trait.CharacterID, models.OpUpdate,
		fmt.Sprintf("Updated trait %q", trait.Name))
	s.invalidateOwners(ctx, models.EntityCharacter, trait.CharacterID)
	return trait, nil
}

// MoveTrait repositions a trait within its character's list.
func (s *CharacterService) MoveTrait(ctx context.Context, userID, traitID uuid.UUID, position int) error {
	trait, err := s.deps.Characters.GetTrait(ctx, traitID)
	if err != nil {
		return err
	}
	if err := s.deps.Characters.MoveTrait(ctx, traitID, position); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, trait.CharacterID, models.OpMove,
		fmt.Sprintf("Moved trait %q to position %d", trait.Name, position))
	s.invalidateOwners(ctx, models.EntityCharacter, trait.CharacterID)
	return nil
}

// DeleteTrait removes a trait and closes its position gap.
func (s *CharacterService) DeleteTrait(ctx context.Context, userID, traitID uuid.UUID) error {
	trait, err := s.deps.Characters.GetTrait(ctx, traitID)
	if err != nil {
		return err
	}
	if err := s.deps.Characters.DeleteTrait(ctx, traitID); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, trait.CharacterID, models.OpUpdate,
		fmt.Sprintf("Removed trait %q", trait.Name))
	s.invalidateOwners(ctx, models.EntityCharacter, trait.CharacterID)
	return nil
}

// Traits returns the character's traits in position order.
func (s *CharacterService) Traits(ctx context.Context, characterID uuid.UUID) ([]models.CharacterTrait, error) {
	return s.deps.Characters.TraitsByCharacter(ctx, characterID)
}

// AddRelationship records a typed directed relationship between two
// existing characters.
func (s *CharacterService) AddRelationship(ctx context.Context, userID, parentID, relatedID uuid.UUID, relType models.RelationshipType, description string, position int) (*models.CharacterRelationship, error) {
	if _, err := s.deps.Characters.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	if _, err := s.deps.Characters.GetByID(ctx, relatedID); err != nil {
		return nil, err
	}
	rel := &models.CharacterRelationship{
		ParentID:    parentID,
		RelatedID:   relatedID,
		Type:        relType,
		Description: description,
		Position:    position,
	}
	if err := rel.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Characters.CreateRelationship(ctx, rel); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, parentID, models.OpUpdate,
		fmt.Sprintf("Added %s relationship", rel.Type))
	s.invalidateOwners(ctx, models.EntityCharacter, parentID)
	return rel, nil
}

// UpdateRelationship rewrites a relationship's type and description.
func (s *CharacterService) UpdateRelationship(ctx context.Context, userID, relID uuid.UUID, relType models.RelationshipType, description string) (*models.CharacterRelationship, error) {
	rel, err := s.deps.Characters.GetRelationship(ctx, relID)
	if err != nil {
		return nil, err
	}
	rel.Type = relType
	rel.Description = description
	if err := rel.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Characters.UpdateRelationship(ctx, rel); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, rel.ParentID, models.OpUpdate,
		fmt.Sprintf("Updated %s relationship", rel.Type))
	s.invalidateOwners(ctx, models.EntityCharacter, rel.ParentID)
	return rel, nil
}

// MoveRelationship repositions a relationship in its character's list.
func (s *CharacterService) MoveRelationship(ctx context.Context, userID, relID uuid.UUID, position int) error {
	rel, err := s.deps.Characters.GetRelationship(ctx, relID)
	if err != nil {
		return err
	}
	if err := s.deps.Characters.MoveRelationship(ctx, relID, position); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, rel.ParentID, models.OpMove,
		fmt.Sprintf("Moved relationship to position %d", position))
	s.invalidateOwners(ctx, models.EntityCharacter, rel.ParentID)
	return nil
}

// DeleteRelationship removes a relationship and closes its position gap.
func (s *CharacterService) DeleteRelationship(ctx context.Context, userID, relID uuid.UUID) error {
	rel, err := s.deps.Characters.GetRelationship(ctx, relID)
	if err != nil {
		return err
	}
	if err := s.deps.Characters.DeleteRelationship(ctx, relID); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityCharacter, rel.ParentID, models.OpUpdate,
		"Removed relationship")
	s.invalidateOwners(ctx, models.EntityCharacter, rel.ParentID)
	return nil
}

// Relationships returns the character's relationships in position order.
func (s *CharacterService) Relationships(ctx context.Context, characterID uuid.UUID) ([]models.CharacterRelationship, error) {
	return s.deps.Characters.RelationshipsByCharacter(ctx, characterID)
}
