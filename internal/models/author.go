package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Author identifies a writer, real or pen name. Stories attach through the
// relation table so a pseudonym can cover several works.
type Author struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"userId"`
	Name        string    `db:"name" json:"name"`
	Initials    string    `db:"initials" json:"initials"`
	IsPseudonym bool      `db:"is_pseudonym" json:"isPseudonym"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks the author's name.
func (a *Author) Validate() error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return fmt.Errorf("an author name is required: %w", ErrValidation)
	}
	if len(a.Name) > maxTitleLen {
		return fmt.Errorf("author name exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	return nil
}

// Bibliography is a reference work consulted for a story. Its authors
// attach through the relation table.
type Bibliography struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"userId"`
	StoryID         uuid.UUID `db:"story_id" json:"storyId"`
	Title           string    `db:"title" json:"title"`
	Pages           string    `db:"pages" json:"pages"`
	Publisher       string    `db:"publisher" json:"publisher"`
	PublicationDate string    `db:"publication_date" json:"publicationDate"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields.
func (b *Bibliography) Validate() error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return fmt.Errorf("a bibliography title is required: %w", ErrValidation)
	}
	if len(b.Title) > maxTitleLen {
		return fmt.Errorf("bibliography title exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	if b.StoryID == uuid.Nil {
		return fmt.Errorf("a bibliography entry must belong to a story: %w", ErrValidation)
	}
	return nil
}

// Submission records sending a story to a market and what came of it.
type Submission struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	UserID    uuid.UUID        `db:"user_id" json:"userId"`
	StoryID   uuid.UUID        `db:"story_id" json:"storyId"`
	Market    string           `db:"market" json:"market"`
	DateSent  string           `db:"date_sent" json:"dateSent"`
	Result    SubmissionResult `db:"result" json:"result"`
	Amount    float64          `db:"amount" json:"amount"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
}

// Validate checks the target market and the result enum.
func (s *Submission) Validate() error {
	s.Market = strings.TrimSpace(s.Market)
	if s.Market == "" {
		return fmt.Errorf("a submission market is required: %w", ErrValidation)
	}
	if s.StoryID == uuid.Nil {
		return fmt.Errorf("a submission must belong to a story: %w", ErrValidation)
	}
	if !s.Result.Valid() {
		return fmt.Errorf("unknown submission result %q: %w", s.Result, ErrValidation)
	}
	return nil
}
