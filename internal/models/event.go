package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is something that happens in a story's world. Characters and
// locations attach through the relation table. The datetime fields are
// display strings in the configured date format; they only order events for
// presentation and never drive core logic.
type Event struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"userId"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	StartDatetime string    `db:"start_datetime" json:"startDatetime"`
	EndDatetime   string    `db:"end_datetime" json:"endDatetime"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields and length limits.
func (e *Event) Validate() error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return fmt.Errorf("an event title is required: %w", ErrValidation)
	}
	if len(e.Title) > maxTitleLen {
		return fmt.Errorf("event title exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	if len(e.Description) > maxTextLen {
		return fmt.Errorf("event description exceeds %d characters: %w", maxTextLen, ErrValidation)
	}
	return nil
}

// Location is a place referenced by events and stories.
type Location struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"userId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields and length limits.
func (l *Location) Validate() error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return fmt.Errorf("a location name is required: %w", ErrValidation)
	}
	if len(l.Name) > maxTitleLen {
		return fmt.Errorf("location name exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	if len(l.Description) > maxTextLen {
		return fmt.Errorf("location description exceeds %d characters: %w", maxTextLen, ErrValidation)
	}
	return nil
}
