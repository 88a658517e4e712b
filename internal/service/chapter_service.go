package service

import (
	"context"
	"fmt"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// ChapterService manages chapters and their ordering within a story.
type ChapterService struct {
	base
}

// NewChapterService creates the chapter controller.
func NewChapterService(deps Deps) *ChapterService {
	return &ChapterService{base: newBase(deps, "ChapterService")}
}

// Create inserts a chapter at the given position; position 0 appends at the
// end. The story must exist.
func (s *ChapterService) Create(ctx context.Context, userID, storyID uuid.UUID, title, description string, position int) (*models.Chapter, error) {
	if _, err := s.deps.Stories.GetByID(ctx, storyID); err != nil {
		return nil, err
	}
	chapter := &models.Chapter{
		StoryID:     storyID,
		Title:       title,
		Description: description,
		Position:    position,
	}
	if err := chapter.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Chapters.Create(ctx, chapter); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityChapter, chapter.ID, models.OpCreate,
		fmt.Sprintf("Created chapter %q at position %d", chapter.Title, chapter.Position))
	s.invalidateStory(ctx, storyID)
	return chapter, nil
}

// GetByID returns one chapter.
func (s *ChapterService) GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	return s.deps.Chapters.GetByID(ctx, id)
}

// Update rewrites the chapter's title and description. Reordering goes
// through Move.
func (s *ChapterService) Update(ctx context.Context, userID, id uuid.UUID, title, description string) (*models.Chapter, error) {
	chapter, err := s.deps.Chapters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	chapter.Title = title
	chapter.Description = description
	if err := chapter.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Chapters.Update(ctx, chapter); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityChapter, chapter.ID, models.OpUpdate,
		fmt.Sprintf("Updated chapter %q", chapter.Title))
	s.invalidateStory(ctx, chapter.StoryID)
	return chapter, nil
}

// Move repositions the chapter within its story.
func (s *ChapterService) Move(ctx context.Context, userID, id uuid.UUID, position int) error {
	chapter, err := s.deps.Chapters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Chapters.Move(ctx, id, position); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityChapter, id, models.OpMove,
		fmt.Sprintf("Moved chapter %q to position %d", chapter.Title, position))
	s.invalidateStory(ctx, chapter.StoryID)
	return nil
}

// Delete removes the chapter. Without cascade a chapter that still has
// scenes is refused with models.ErrConflict.
func (s *ChapterService) Delete(ctx context.Context, userID, id uuid.UUID, cascade bool) error {
	chapter, err := s.deps.Chapters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Chapters.Delete(ctx, id, cascade); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityChapter, id, models.OpDelete,
		fmt.Sprintf("Deleted chapter %q", chapter.Title))
	s.invalidateStory(ctx, chapter.StoryID)
	return nil
}

// ListByStory returns the story's chapters in position order.
func (s *ChapterService) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Chapter, error) {
	return s.deps.Chapters.ListByStory(ctx, storyID)
}
