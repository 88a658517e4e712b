package service

import (
	"context"
	"strings"
	"testing"

	"gnatwriter/internal/mocks"
	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testMocks bundles the repository mocks shared by the controller tests.
// The cache mock is always present: a typed nil would defeat the nil check
// in the invalidation helpers.
type testMocks struct {
	stories    *mocks.StoryRepository
	chapters   *mocks.ChapterRepository
	scenes     *mocks.SceneRepository
	characters *mocks.CharacterRepository
	notes      *mocks.NoteRepository
	relations  *mocks.RelationRepository
	activities *mocks.ActivityRepository
	users      *mocks.UserRepository
	cache      *mocks.SnapshotCache
}

func newTestMocks() *testMocks {
	return &testMocks{
		stories:    new(mocks.StoryRepository),
		chapters:   new(mocks.ChapterRepository),
		scenes:     new(mocks.SceneRepository),
		characters: new(mocks.CharacterRepository),
		notes:      new(mocks.NoteRepository),
		relations:  new(mocks.RelationRepository),
		activities: new(mocks.ActivityRepository),
		users:      new(mocks.UserRepository),
		cache:      new(mocks.SnapshotCache),
	}
}

func (tm *testMocks) deps() Deps {
	return Deps{
		Stories:    tm.stories,
		Chapters:   tm.chapters,
		Scenes:     tm.scenes,
		Characters: tm.characters,
		Notes:      tm.notes,
		Relations:  tm.relations,
		Activities: tm.activities,
		Users:      tm.users,
		Cache:      tm.cache,
		Logger:     zap.NewNop(),
	}
}

func TestStoryCreate(t *testing.T) {
	t.Run("persists and logs the mutation", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewStoryService(tm.deps())
		userID := uuid.New()
		storyID := uuid.New()

		tm.stories.On("Create", mock.Anything, mock.AnythingOfType("*models.Story")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Story).ID = storyID
			}).
			Return(nil).Once()

		var logged *models.Activity
		tm.activities.On("Append", mock.Anything, mock.AnythingOfType("*models.Activity")).
			Run(func(args mock.Arguments) {
				logged = args.Get(1).(*models.Activity)
			}).
			Return(nil).Once()

		story, err := svc.Create(context.Background(), userID, "The Long Rain", "a heist in the flood season")
		require.NoError(t, err)
		assert.Equal(t, storyID, story.ID)
		assert.Equal(t, userID, story.UserID)

		require.NotNil(t, logged)
		assert.Equal(t, models.OpCreate, logged.Operation)
		assert.Equal(t, models.EntityStory, logged.EntityType)
		assert.Equal(t, storyID, logged.EntityID)
		tm.stories.AssertExpectations(t)
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewStoryService(tm.deps())

		_, err := svc.Create(context.Background(), uuid.New(), "   ", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		tm.stories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects an oversized title", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewStoryService(tm.deps())

		_, err := svc.Create(context.Background(), uuid.New(), strings.Repeat("x", 251), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestStoryUpdate(t *testing.T) {
	t.Run("invalidates the cached snapshot", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewStoryService(tm.deps())
		storyID := uuid.New()

		tm.stories.On("GetByID", mock.Anything, storyID).
			Return(&models.Story{ID: storyID, Title: "Old"}, nil).Once()
		tm.stories.On("Update", mock.Anything, mock.AnythingOfType("*models.Story")).Return(nil).Once()
		tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
		tm.cache.On("Invalidate", mock.Anything, storyID).Return(nil).Once()

		story, err := svc.Update(context.Background(), uuid.New(), storyID, "New Title", "new description")
		require.NoError(t, err)
		assert.Equal(t, "New Title", story.Title)
		tm.cache.AssertExpectations(t)
	})

	t.Run("unknown story surfaces not found", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewStoryService(tm.deps())
		storyID := uuid.New()

		tm.stories.On("GetByID", mock.Anything, storyID).Return(nil, models.ErrNotFound).Once()

		_, err := svc.Update(context.Background(), uuid.New(), storyID, "Title", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestStoryDelete(t *testing.T) {
	t.Run("refusal without cascade passes through", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewStoryService(tm.deps())
		storyID := uuid.New()

		tm.stories.On("Delete", mock.Anything, storyID, false).Return(models.ErrConflict).Once()

		err := svc.Delete(context.Background(), uuid.New(), storyID, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrConflict)
		tm.activities.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("cascade delete logs and invalidates", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewStoryService(tm.deps())
		storyID := uuid.New()

		tm.stories.On("Delete", mock.Anything, storyID, true).Return(nil).Once()
		tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
		tm.cache.On("Invalidate", mock.Anything, storyID).Return(nil).Once()

		require.NoError(t, svc.Delete(context.Background(), uuid.New(), storyID, true))
		tm.cache.AssertExpectations(t)
	})
}

func TestStoryListDefaultsLimit(t *testing.T) {
	tm := newTestMocks()
	svc := NewStoryService(tm.deps())
	userID := uuid.New()

	tm.stories.On("ListByUser", mock.Anything, userID, 50, 0).
		Return([]models.Story{{Title: "One"}}, nil).Once()

	stories, err := svc.List(context.Background(), userID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, stories, 1)
	tm.stories.AssertExpectations(t)
}

func TestChapterCreate(t *testing.T) {
	t.Run("requires an existing story", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewChapterService(tm.deps())
		storyID := uuid.New()

		tm.stories.On("GetByID", mock.Anything, storyID).Return(nil, models.ErrNotFound).Once()

		_, err := svc.Create(context.Background(), uuid.New(), storyID, "Chapter One", "", 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
		tm.chapters.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalidates the story snapshot", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewChapterService(tm.deps())
		storyID := uuid.New()

		tm.stories.On("GetByID", mock.Anything, storyID).
			Return(&models.Story{ID: storyID, Title: "Story"}, nil).Once()
		tm.chapters.On("Create", mock.Anything, mock.AnythingOfType("*models.Chapter")).Return(nil).Once()
		tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
		tm.cache.On("Invalidate", mock.Anything, storyID).Return(nil).Once()

		chapter, err := svc.Create(context.Background(), uuid.New(), storyID, "Chapter One", "", 0)
		require.NoError(t, err)
		assert.Equal(t, storyID, chapter.StoryID)
		tm.cache.AssertExpectations(t)
	})
}

func TestChapterMove(t *testing.T) {
	tm := newTestMocks()
	svc := NewChapterService(tm.deps())
	storyID := uuid.New()
	chapterID := uuid.New()

	tm.chapters.On("GetByID", mock.Anything, chapterID).
		Return(&models.Chapter{ID: chapterID, StoryID: storyID, Title: "Ch"}, nil).Once()
	tm.chapters.On("Move", mock.Anything, chapterID, 3).Return(nil).Once()
	tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	tm.cache.On("Invalidate", mock.Anything, storyID).Return(nil).Once()

	require.NoError(t, svc.Move(context.Background(), uuid.New(), chapterID, 3))
	tm.chapters.AssertExpectations(t)
	tm.cache.AssertExpectations(t)
}

func TestSceneCreateRequiresChapter(t *testing.T) {
	tm := newTestMocks()
	svc := NewSceneService(tm.deps())
	chapterID := uuid.New()

	tm.chapters.On("GetByID", mock.Anything, chapterID).Return(nil, models.ErrNotFound).Once()

	_, err := svc.Create(context.Background(), uuid.New(), chapterID, "Opening", "", "prose", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
	tm.scenes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSceneUpdateInvalidatesOwningStory(t *testing.T) {
	tm := newTestMocks()
	svc := NewSceneService(tm.deps())
	storyID := uuid.New()
	chapterID := uuid.New()
	sceneID := uuid.New()

	tm.scenes.On("GetByID", mock.Anything, sceneID).
		Return(&models.Scene{ID: sceneID, ChapterID: chapterID, Title: "Opening"}, nil)
	tm.scenes.On("Update", mock.Anything, mock.AnythingOfType("*models.Scene")).Return(nil).Once()
	tm.chapters.On("GetByID", mock.Anything, chapterID).
		Return(&models.Chapter{ID: chapterID, StoryID: storyID, Title: "Ch"}, nil).Once()
	tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	tm.cache.On("Invalidate", mock.Anything, storyID).Return(nil).Once()

	scene, err := svc.Update(context.Background(), uuid.New(), sceneID, "Opening", "", "she opened the door")
	require.NoError(t, err)
	assert.Equal(t, "she opened the door", scene.Content)
	tm.cache.AssertExpectations(t)
}
