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

func TestAttach(t *testing.T) {
	t.Run("note attaches to scene", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewRelationService(tm.deps())
		storyID := uuid.New()
		chapterID := uuid.New()
		sceneID := uuid.New()
		noteID := uuid.New()

		tm.scenes.On("GetByID", mock.Anything, sceneID).
			Return(&models.Scene{ID: sceneID, ChapterID: chapterID, Title: "Opening"}, nil)
		tm.notes.On("GetByID", mock.Anything, noteID).
			Return(&models.Note{ID: noteID, Title: "Research"}, nil).Once()
		tm.relations.On("Attach", mock.Anything, mock.AnythingOfType("*models.Relation")).Return(nil).Once()
		tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
		tm.chapters.On("GetByID", mock.Anything, chapterID).
			Return(&models.Chapter{ID: chapterID, StoryID: storyID, Title: "Ch"}, nil).Once()
		tm.cache.On("Invalidate", mock.Anything, storyID).Return(nil).Once()

		err := svc.Attach(context.Background(), uuid.New(), models.EntityScene, sceneID, models.EntityNote, noteID)
		require.NoError(t, err)
		tm.relations.AssertExpectations(t)
		tm.cache.AssertExpectations(t)
	})

	t.Run("disallowed pair is rejected before any lookup", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewRelationService(tm.deps())

		err := svc.Attach(context.Background(), uuid.New(), models.EntityScene, uuid.New(), models.EntityCharacter, uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		tm.scenes.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		tm.relations.AssertNotCalled(t, "Attach", mock.Anything, mock.Anything)
	})

	t.Run("missing related entity is refused", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewRelationService(tm.deps())
		storyID := uuid.New()
		noteID := uuid.New()

		tm.stories.On("GetByID", mock.Anything, storyID).
			Return(&models.Story{ID: storyID, Title: "Story"}, nil).Once()
		tm.notes.On("GetByID", mock.Anything, noteID).Return(nil, models.ErrNotFound).Once()

		err := svc.Attach(context.Background(), uuid.New(), models.EntityStory, storyID, models.EntityNote, noteID)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
		tm.relations.AssertNotCalled(t, "Attach", mock.Anything, mock.Anything)
	})

	t.Run("duplicate edge surfaces a conflict", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewRelationService(tm.deps())
		storyID := uuid.New()
		characterID := uuid.New()

		tm.stories.On("GetByID", mock.Anything, storyID).
			Return(&models.Story{ID: storyID, Title: "Story"}, nil).Once()
		tm.characters.On("GetByID", mock.Anything, characterID).
			Return(&models.Character{ID: characterID, FirstName: "Anya"}, nil).Once()
		tm.relations.On("Attach", mock.Anything, mock.Anything).Return(models.ErrConflict).Once()

		err := svc.Attach(context.Background(), uuid.New(), models.EntityStory, storyID, models.EntityCharacter, characterID)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrConflict)
		tm.activities.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestDetach(t *testing.T) {
	tm := newTestMocks()
	svc := NewRelationService(tm.deps())
	storyID := uuid.New()
	noteID := uuid.New()

	tm.relations.On("Detach", mock.Anything, models.EntityStory, storyID, models.EntityNote, noteID).
		Return(nil).Once()
	tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	tm.cache.On("Invalidate", mock.Anything, storyID).Return(nil).Once()

	err := svc.Detach(context.Background(), uuid.New(), models.EntityStory, storyID, models.EntityNote, noteID)
	require.NoError(t, err)
	tm.relations.AssertExpectations(t)
	tm.cache.AssertExpectations(t)
}

func TestRelated(t *testing.T) {
	t.Run("returns ids in attachment order", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewRelationService(tm.deps())
		storyID := uuid.New()
		ids := []uuid.UUID{uuid.New(), uuid.New()}

		tm.relations.On("RelatedIDs", mock.Anything, models.EntityStory, storyID, models.EntityCharacter).
			Return(ids, nil).Once()

		got, err := svc.Related(context.Background(), models.EntityStory, storyID, models.EntityCharacter)
		require.NoError(t, err)
		assert.Equal(t, ids, got)
	})

	t.Run("rejects a pair outside the matrix", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewRelationService(tm.deps())

		_, err := svc.Related(context.Background(), models.EntityCharacter, uuid.New(), models.EntityStory)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		tm.relations.AssertNotCalled(t, "RelatedIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
