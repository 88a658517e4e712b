package service

import (
	"context"
	"testing"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCharacterCreate(t *testing.T) {
	t.Run("assigns ownership", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewCharacterService(tm.deps())
		userID := uuid.New()

		tm.characters.On("Create", mock.Anything, mock.AnythingOfType("*models.Character")).Return(nil).Once()
		tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		character, err := svc.Create(context.Background(), userID, models.Character{
			ID:        uuid.New(), // caller-supplied id is discarded
			FirstName: "Anya",
			LastName:  "Volkova",
		})
		require.NoError(t, err)
		assert.Equal(t, userID, character.UserID)
		assert.Equal(t, "Anya Volkova", character.Name())
	})

	t.Run("requires at least one name component", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewCharacterService(tm.deps())

		_, err := svc.Create(context.Background(), uuid.New(), models.Character{Description: "nameless"})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		tm.characters.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAddTrait(t *testing.T) {
	t.Run("rejects a magnitude out of range", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewCharacterService(tm.deps())
		characterID := uuid.New()

		tm.characters.On("GetByID", mock.Anything, characterID).
			Return(&models.Character{ID: characterID, FirstName: "Anya"}, nil).Once()

		_, err := svc.AddTrait(context.Background(), uuid.New(), characterID, "bravery", 150, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		tm.characters.AssertNotCalled(t, "CreateTrait", mock.Anything, mock.Anything)
	})

	t.Run("persists and invalidates owning stories", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewCharacterService(tm.deps())
		characterID := uuid.New()
		storyID := uuid.New()

		tm.characters.On("GetByID", mock.Anything, characterID).
			Return(&models.Character{ID: characterID, FirstName: "Anya"}, nil).Once()
		tm.characters.On("CreateTrait", mock.Anything, mock.AnythingOfType("*models.CharacterTrait")).Return(nil).Once()
		tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
		tm.relations.On("OwnerIDs", mock.Anything, models.EntityCharacter, characterID, models.EntityStory).
			Return([]uuid.UUID{storyID}, nil).Once()
		tm.cache.On("Invalidate", mock.Anything, storyID).Return(nil).Once()

		trait, err := svc.AddTrait(context.Background(), uuid.New(), characterID, "bravery", 80, 0)
		require.NoError(t, err)
		assert.Equal(t, characterID, trait.CharacterID)
		tm.cache.AssertExpectations(t)
	})
}

func TestAddRelationship(t *testing.T) {
	t.Run("rejects a self reference", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewCharacterService(tm.deps())
		characterID := uuid.New()

		tm.characters.On("GetByID", mock.Anything, characterID).
			Return(&models.Character{ID: characterID, FirstName: "Anya"}, nil)

		_, err := svc.AddRelationship(context.Background(), uuid.New(), characterID, characterID,
			models.RelationshipFamily, "", 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		tm.characters.AssertNotCalled(t, "CreateRelationship", mock.Anything, mock.Anything)
	})

	t.Run("requires both characters", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewCharacterService(tm.deps())
		parentID := uuid.New()
		relatedID := uuid.New()

		tm.characters.On("GetByID", mock.Anything, parentID).
			Return(&models.Character{ID: parentID, FirstName: "Anya"}, nil).Once()
		tm.characters.On("GetByID", mock.Anything, relatedID).Return(nil, models.ErrNotFound).Once()

		_, err := svc.AddRelationship(context.Background(), uuid.New(), parentID, relatedID,
			models.RelationshipPersonal, "", 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("persists a typed edge", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewCharacterService(tm.deps())
		parentID := uuid.New()
		relatedID := uuid.New()

		tm.characters.On("GetByID", mock.Anything, parentID).
			Return(&models.Character{ID: parentID, FirstName: "Anya"}, nil).Once()
		tm.characters.On("GetByID", mock.Anything, relatedID).
			Return(&models.Character{ID: relatedID, FirstName: "Boris"}, nil).Once()
		tm.characters.On("CreateRelationship", mock.Anything, mock.AnythingOfType("*models.CharacterRelationship")).
			Return(nil).Once()
		tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
		tm.relations.On("OwnerIDs", mock.Anything, models.EntityCharacter, parentID, models.EntityStory).
			Return(nil, nil).Once()

		rel, err := svc.AddRelationship(context.Background(), uuid.New(), parentID, relatedID,
			models.RelationshipFamily, "brother", 0)
		require.NoError(t, err)
		assert.Equal(t, models.RelationshipFamily, rel.Type)
	})
}

func TestDeleteTrait(t *testing.T) {
	tm := newTestMocks()
	svc := NewCharacterService(tm.deps())
	characterID := uuid.New()
	traitID := uuid.New()

	tm.characters.On("GetTrait", mock.Anything, traitID).
		Return(&models.CharacterTrait{ID: traitID, CharacterID: characterID, Name: "bravery"}, nil).Once()
	tm.characters.On("DeleteTrait", mock.Anything, traitID).Return(nil).Once()
	tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	tm.relations.On("OwnerIDs", mock.Anything, models.EntityCharacter, characterID, models.EntityStory).
		Return(nil, nil).Once()

	require.NoError(t, svc.DeleteTrait(context.Background(), uuid.New(), traitID))
	tm.characters.AssertExpectations(t)
}
