package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note is a free-text annotation attachable to stories, chapters, scenes,
// characters, events and locations through the relation table.
type Note struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields and length limits.
func (n *Note) Validate() error {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return fmt.Errorf("a note title is required: %w", ErrValidation)
	}
	if len(n.Title) > maxTitleLen {
		return fmt.Errorf("note title exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	if len(n.Content) > maxTextLen {
		return fmt.Errorf("note content exceeds %d characters: %w", maxTextLen, ErrValidation)
	}
	return nil
}

// Link is a labelled URL, attachable the same way notes are.
type Link struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate requires an absolute http(s) URL and a label.
func (l *Link) Validate() error {
	l.Title = strings.TrimSpace(l.Title)
	l.URL = strings.TrimSpace(l.URL)
	if l.Title == "" {
		return fmt.Errorf("a link title is required: %w", ErrValidation)
	}
	if len(l.Title) > maxTitleLen {
		return fmt.Errorf("link title exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	u, err := url.Parse(l.URL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("link url must be absolute http(s): %w", ErrValidation)
	}
	return nil
}
