package service

import (
	"context"
	"fmt"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// StoryService manages stories: the root of the writing hierarchy.
type StoryService struct {
	base
}

// NewStoryService creates the story controller.
func NewStoryService(deps Deps) *StoryService {
	return &StoryService{base: newBase(deps, "StoryService")}
}

// Create validates and persists a new story.
func (s *StoryService) Create(ctx context.Context, userID uuid.UUID, title, description string) (*models.Story, error) {
	story := &models.Story{
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := story.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Stories.Create(ctx, story); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityStory, story.ID, models.OpCreate,
		fmt.Sprintf("Created story %q", story.Title))
	return story, nil
}

// GetByID returns one story.
func (s *StoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	return s.deps.Stories.GetByID(ctx, id)
}

// Update rewrites the story's title and description.
func (s *StoryService) Update(ctx context.Context, userID, id uuid.UUID, title, description string) (*models.Story, error) {
	story, err := s.deps.Stories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	story.Title = title
	story.Description = description
	if err := story.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Stories.Update(ctx, story); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityStory, story.ID, models.OpUpdate,
		fmt.Sprintf("Updated story %q", story.Title))
	s.invalidateStory(ctx, story.ID)
	return story, nil
}

// Delete removes the story. Without cascade a story that still has chapters
// is refused with models.ErrConflict.
func (s *StoryService) Delete(ctx context.Context, userID, id uuid.UUID, cascade bool) error {
	if err := s.deps.Stories.Delete(ctx, id, cascade); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityStory, id, models.OpDelete, "Deleted story")
	s.invalidateStory(ctx, id)
	return nil
}

// List returns the user's stories in creation order.
func (s *StoryService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Story, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Stories.ListByUser(ctx, userID, limit, offset)
}

// Count returns how many stories the user owns.
func (s *StoryService) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.deps.Stories.CountByUser(ctx, userID)
}

// Search matches titles and descriptions.
func (s *StoryService) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Story, error) {
	return s.deps.Stories.Search(ctx, userID, query)
}
