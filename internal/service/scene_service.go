package service

import (
	"context"
	"fmt"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// SceneService manages scenes: the prose-bearing leaves of the hierarchy.
type SceneService struct {
	base
}

// NewSceneService creates the scene controller.
func NewSceneService(deps Deps) *SceneService {
	return &SceneService{base: newBase(deps, "SceneService")}
}

// Create inserts a scene at the given position; position 0 appends at the
// end. The chapter must exist.
func (s *SceneService) Create(ctx context.Context, userID, chapterID uuid.UUID, title, description, content string, position int) (*models.Scene, error) {
	chapter, err := s.deps.Chapters.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	scene := &models.Scene{
		ChapterID:   chapterID,
		Title:       title,
		Description: description,
		Content:     content,
		Position:    position,
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Scenes.Create(ctx, scene); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityScene, scene.ID, models.OpCreate,
		fmt.Sprintf("Created scene %q at position %d", scene.Title, scene.Position))
	s.invalidateStory(ctx, chapter.StoryID)
	return scene, nil
}

// GetByID returns one scene.
func (s *SceneService) GetByID(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	return s.deps.Scenes.GetByID(ctx, id)
}

// Update rewrites the scene's fields including the prose body.
func (s *SceneService) Update(ctx context.Context, userID, id uuid.UUID, title, description, content string) (*models.Scene, error) {
	scene, err := s.deps.Scenes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	scene.Title = title
	scene.Description = description
	scene.Content = content
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Scenes.Update(ctx, scene); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityScene, scene.ID, models.OpUpdate,
		fmt.Sprintf("Updated scene %q", scene.Title))
	s.invalidateOwners(ctx, models.EntityScene, scene.ID)
	return scene, nil
}

// Move repositions the scene within its chapter.
func (s *SceneService) Move(ctx context.Context, userID, id uuid.UUID, position int) error {
	if err := s.deps.Scenes.Move(ctx, id, position); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityScene, id, models.OpMove,
		fmt.Sprintf("Moved scene to position %d", position))
	s.invalidateOwners(ctx, models.EntityScene, id)
	return nil
}

// Delete removes the scene and closes the position gap. Scenes have no
// ordered children, so no cascade flag.
func (s *SceneService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	scene, err := s.deps.Scenes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	chapter, err := s.deps.Chapters.GetByID(ctx, scene.ChapterID)
	if err != nil {
		return err
	}
	if err := s.deps.Scenes.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityScene, id, models.OpDelete,
		fmt.Sprintf("Deleted scene %q", scene.Title))
	s.invalidateStory(ctx, chapter.StoryID)
	return nil
}

// ListByChapter returns the chapter's scenes in position order.
func (s *SceneService) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]models.Scene, error) {
	return s.deps.Scenes.ListByChapter(ctx, chapterID)
}

// Search matches scene titles and prose across the user's stories.
func (s *SceneService) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Scene, error) {
	return s.deps.Scenes.Search(ctx, userID, query)
}
