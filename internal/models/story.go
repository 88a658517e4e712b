package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxTitleLen = 250
	maxTextLen  = 65535
)

// Story is the root of the writing hierarchy. Chapters belong to it in
// position order; authors, characters, events, locations, notes and links
// attach through the relation table.
type Story struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields and length limits.
func (s *Story) Validate() error {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return fmt.Errorf("a story title is required: %w", ErrValidation)
	}
	if len(s.Title) > maxTitleLen {
		return fmt.Errorf("story title exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	if len(s.Description) > maxTextLen {
		return fmt.Errorf("story description exceeds %d characters: %w", maxTextLen, ErrValidation)
	}
	return nil
}

// Chapter belongs to exactly one story. Position is contiguous and unique
// within the story, starting at 1.
type Chapter struct {
	ID          uuid.UUID `db:"id" json:"id"`
	StoryID     uuid.UUID `db:"story_id" json:"storyId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Position    int       `db:"position" json:"position"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields and length limits.
func (c *Chapter) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return fmt.Errorf("a chapter title is required: %w", ErrValidation)
	}
	if len(c.Title) > maxTitleLen {
		return fmt.Errorf("chapter title exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	if c.StoryID == uuid.Nil {
		return fmt.Errorf("a chapter must belong to a story: %w", ErrValidation)
	}
	return nil
}

// Scene belongs to exactly one chapter and carries the prose body.
type Scene struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ChapterID   uuid.UUID `db:"chapter_id" json:"chapterId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Content     string    `db:"content" json:"content"`
	Position    int       `db:"position" json:"position"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields and length limits.
func (s *Scene) Validate() error {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return fmt.Errorf("a scene title is required: %w", ErrValidation)
	}
	if len(s.Title) > maxTitleLen {
		return fmt.Errorf("scene title exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	if s.ChapterID == uuid.Nil {
		return fmt.Errorf("a scene must belong to a chapter: %w", ErrValidation)
	}
	return nil
}
