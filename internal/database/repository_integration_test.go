package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gnatwriter/internal/database"
	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// RepositoryIntegrationSuite runs the repositories against a disposable
// PostgreSQL container. Skipped in -short mode; requires Docker.
type RepositoryIntegrationSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	pool        *pgxpool.Pool
	logger      *zap.Logger

	users     interfaces.UserRepository
	stories   interfaces.StoryRepository
	chapters  interfaces.ChapterRepository
	scenes    interfaces.SceneRepository
	notes     interfaces.NoteRepository
	relations interfaces.RelationRepository
}

func TestRepositoryIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = zap.NewNop()
	var err error

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	migrateURL := "pgx5://" + strings.TrimPrefix(connStr, "postgres://")
	require.NoError(s.T(), database.RunMigrations(migrateURL, s.logger))

	s.pool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err)

	s.users = database.NewPgUserRepository(s.pool, s.logger)
	s.stories = database.NewPgStoryRepository(s.pool, s.logger)
	s.chapters = database.NewPgChapterRepository(s.pool, s.logger)
	s.scenes = database.NewPgSceneRepository(s.pool, s.logger)
	s.notes = database.NewPgNoteRepository(s.pool, s.logger)
	s.relations = database.NewPgRelationRepository(s.pool, s.logger)
}

func (s *RepositoryIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.T().Logf("failed to terminate postgres container: %v", err)
		}
	}
}

func (s *RepositoryIntegrationSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx,
		"TRUNCATE TABLE users, stories, notes, entity_relations, activities RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate tables")
}

func (s *RepositoryIntegrationSuite) newUser(username string) *models.User {
	user := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(s.T(), s.users.Create(s.ctx, user))
	return user
}

func (s *RepositoryIntegrationSuite) newStory(user *models.User, title string) *models.Story {
	story := &models.Story{UserID: user.ID, Title: title}
	require.NoError(s.T(), s.stories.Create(s.ctx, story))
	return story
}

func (s *RepositoryIntegrationSuite) newChapter(story *models.Story, title string, position int) *models.Chapter {
	chapter := &models.Chapter{StoryID: story.ID, Title: title, Position: position}
	require.NoError(s.T(), s.chapters.Create(s.ctx, chapter))
	return chapter
}

func (s *RepositoryIntegrationSuite) chapterTitles(story *models.Story) []string {
	chapters, err := s.chapters.ListByStory(s.ctx, story.ID)
	require.NoError(s.T(), err)
	titles := make([]string, 0, len(chapters))
	for i, chapter := range chapters {
		require.Equal(s.T(), i+1, chapter.Position, "positions must stay contiguous from 1")
		titles = append(titles, chapter.Title)
	}
	return titles
}

func (s *RepositoryIntegrationSuite) TestChapterOrdering() {
	t := s.T()
	user := s.newUser("writer")
	story := s.newStory(user, "The Long Rain")

	// Position 0 appends.
	s.newChapter(story, "One", 0)
	s.newChapter(story, "Two", 0)
	s.newChapter(story, "Three", 0)
	require.Equal(t, []string{"One", "Two", "Three"}, s.chapterTitles(story))

	// Insert in the middle shifts later siblings.
	inserted := s.newChapter(story, "Interlude", 2)
	require.Equal(t, 2, inserted.Position)
	require.Equal(t, []string{"One", "Interlude", "Two", "Three"}, s.chapterTitles(story))

	// Move to the front.
	require.NoError(t, s.chapters.Move(s.ctx, inserted.ID, 1))
	require.Equal(t, []string{"Interlude", "One", "Two", "Three"}, s.chapterTitles(story))

	// Out-of-range positions clamp to the ends.
	require.NoError(t, s.chapters.Move(s.ctx, inserted.ID, 99))
	require.Equal(t, []string{"One", "Two", "Three", "Interlude"}, s.chapterTitles(story))

	// Delete closes the gap.
	require.NoError(t, s.chapters.Delete(s.ctx, inserted.ID, false))
	require.Equal(t, []string{"One", "Two", "Three"}, s.chapterTitles(story))
}

func (s *RepositoryIntegrationSuite) TestSceneDeleteClosesGap() {
	t := s.T()
	user := s.newUser("writer")
	story := s.newStory(user, "Story")
	chapter := s.newChapter(story, "Chapter", 0)

	var middle *models.Scene
	for i, title := range []string{"A", "B", "C"} {
		scene := &models.Scene{ChapterID: chapter.ID, Title: title}
		require.NoError(t, s.scenes.Create(s.ctx, scene))
		if i == 1 {
			middle = scene
		}
	}

	require.NoError(t, s.scenes.Delete(s.ctx, middle.ID))

	scenes, err := s.scenes.ListByChapter(s.ctx, chapter.ID)
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	require.Equal(t, "A", scenes[0].Title)
	require.Equal(t, 1, scenes[0].Position)
	require.Equal(t, "C", scenes[1].Title)
	require.Equal(t, 2, scenes[1].Position)
}

func (s *RepositoryIntegrationSuite) TestStoryCascadeDelete() {
	t := s.T()
	user := s.newUser("writer")
	story := s.newStory(user, "Story")
	chapter := s.newChapter(story, "Chapter", 0)
	scene := &models.Scene{ChapterID: chapter.ID, Title: "Scene"}
	require.NoError(t, s.scenes.Create(s.ctx, scene))

	err := s.stories.Delete(s.ctx, story.ID, false)
	require.Error(t, err, "non-empty story must refuse a plain delete")
	require.True(t, errors.Is(err, models.ErrConflict))

	require.NoError(t, s.stories.Delete(s.ctx, story.ID, true))

	_, err = s.stories.GetByID(s.ctx, story.ID)
	require.True(t, errors.Is(err, models.ErrNotFound))
	_, err = s.chapters.GetByID(s.ctx, chapter.ID)
	require.True(t, errors.Is(err, models.ErrNotFound))
	_, err = s.scenes.GetByID(s.ctx, scene.ID)
	require.True(t, errors.Is(err, models.ErrNotFound))
}

func (s *RepositoryIntegrationSuite) TestRelationAttachOrder() {
	t := s.T()
	user := s.newUser("writer")
	story := s.newStory(user, "Story")

	first := &models.Note{UserID: user.ID, Title: "First"}
	second := &models.Note{UserID: user.ID, Title: "Second"}
	require.NoError(t, s.notes.Create(s.ctx, first))
	require.NoError(t, s.notes.Create(s.ctx, second))

	attach := func(note *models.Note) {
		rel := &models.Relation{
			OwnerType: models.EntityStory, OwnerID: story.ID,
			RelatedType: models.EntityNote, RelatedID: note.ID,
		}
		require.NoError(t, s.relations.Attach(s.ctx, rel))
	}
	attach(first)
	attach(second)

	ids, err := s.relations.RelatedIDs(s.ctx, models.EntityStory, story.ID, models.EntityNote)
	require.NoError(t, err)
	require.Equal(t, []string{first.ID.String(), second.ID.String()},
		[]string{ids[0].String(), ids[1].String()}, "attachment order must hold")

	// The same edge twice is a conflict.
	err = s.relations.Attach(s.ctx, &models.Relation{
		OwnerType: models.EntityStory, OwnerID: story.ID,
		RelatedType: models.EntityNote, RelatedID: first.ID,
	})
	require.True(t, errors.Is(err, models.ErrConflict))

	require.NoError(t, s.relations.Detach(s.ctx, models.EntityStory, story.ID, models.EntityNote, first.ID))
	ids, err = s.relations.RelatedIDs(s.ctx, models.EntityStory, story.ID, models.EntityNote)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.Equal(t, second.ID, ids[0])

	err = s.relations.Detach(s.ctx, models.EntityStory, story.ID, models.EntityNote, first.ID)
	require.True(t, errors.Is(err, models.ErrNotFound))

	// Owner lookup from the far side.
	owners, err := s.relations.OwnerIDs(s.ctx, models.EntityNote, second.ID, models.EntityStory)
	require.NoError(t, err)
	require.Equal(t, []string{story.ID.String()}, []string{owners[0].String()})
}
