package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgStoryRepository creates a PostgreSQL-backed story repository.
func NewPgStoryRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

const createStoryQuery = `
INSERT INTO stories (id, user_id, title, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const getStoryByIDQuery = `
SELECT id, user_id, title, description, created_at, updated_at
FROM stories
WHERE id = $1`

const updateStoryQuery = `
UPDATE stories
SET title = $2, description = $3, updated_at = $4
WHERE id = $1`

const listStoriesByUserQuery = `
SELECT id, user_id, title, description, created_at, updated_at
FROM stories
WHERE user_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

const countStoriesByUserQuery = `
SELECT count(*) FROM stories WHERE user_id = $1`

const searchStoriesQuery = `
SELECT id, user_id, title, description, created_at, updated_at
FROM stories
WHERE user_id = $1 AND (title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
ORDER BY created_at, id`

// Create inserts a new story record.
func (r *pgStoryRepository) Create(ctx context.Context, story *models.Story) error {
	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	now := time.Now().UTC()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}
	story.UpdatedAt = now

	_, err := r.db.Exec(ctx, createStoryQuery,
		story.ID, story.UserID, story.Title, story.Description, story.CreatedAt, story.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create story", zap.Error(err), zap.String("storyID", story.ID.String()))
		return fmt.Errorf("failed to create story: %w", err)
	}
	r.logger.Info("Story created", zap.String("storyID", story.ID.String()))
	return nil
}

// GetByID retrieves a story by its unique ID.
func (r *pgStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	story := &models.Story{}
	err := r.db.QueryRow(ctx, getStoryByIDQuery, id).Scan(
		&story.ID, &story.UserID, &story.Title, &story.Description, &story.CreatedAt, &story.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Story not found", zap.String("storyID", id.String()))
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get story", zap.Error(err), zap.String("storyID", id.String()))
		return nil, fmt.Errorf("failed to get story %s: %w", id, err)
	}
	return story, nil
}

// Update rewrites the story's mutable fields.
func (r *pgStoryRepository) Update(ctx context.Context, story *models.Story) error {
	story.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateStoryQuery,
		story.ID, story.Title, story.Description, story.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update story", zap.Error(err), zap.String("storyID", story.ID.String()))
		return fmt.Errorf("failed to update story %s: %w", story.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

const countChaptersForStoryQuery = `
SELECT count(*) FROM chapters WHERE story_id = $1`

const deleteStoryRelationsQuery = `
DELETE FROM entity_relations
WHERE (owner_type = 'story' AND owner_id = $1)
   OR (related_type = 'story' AND related_id = $1)
   OR (owner_type = 'chapter' AND owner_id IN (SELECT id FROM chapters WHERE story_id = $1))
   OR (related_type = 'chapter' AND related_id IN (SELECT id FROM chapters WHERE story_id = $1))
   OR (owner_type = 'scene' AND owner_id IN (
        SELECT s.id FROM scenes s JOIN chapters c ON s.chapter_id = c.id WHERE c.story_id = $1))
   OR (related_type = 'scene' AND related_id IN (
        SELECT s.id FROM scenes s JOIN chapters c ON s.chapter_id = c.id WHERE c.story_id = $1))`

const deleteStoryQuery = `DELETE FROM stories WHERE id = $1`

// Delete removes the story. With cascade=false the delete is rejected with
// models.ErrConflict while chapters exist; with cascade=true the chapters,
// scenes and every join row touching the subtree go with it, in one
// transaction. Join rows are cleaned on both sides; far-side entities stay.
func (r *pgStoryRepository) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var chapterCount int
	if err := tx.QueryRow(ctx, countChaptersForStoryQuery, id).Scan(&chapterCount); err != nil {
		return fmt.Errorf("failed to count chapters for story %s: %w", id, err)
	}
	if chapterCount > 0 && !cascade {
		r.logger.Debug("Refusing to delete non-empty story without cascade", zap.String("storyID", id.String()))
		return fmt.Errorf("story has %d chapters: %w", chapterCount, models.ErrConflict)
	}

	if _, err := tx.Exec(ctx, deleteStoryRelationsQuery, id); err != nil {
		return fmt.Errorf("failed to delete story relations: %w", err)
	}

	tag, err := tx.Exec(ctx, deleteStoryQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete story %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit story delete: %w", err)
	}
	r.logger.Info("Story deleted", zap.String("storyID", id.String()), zap.Bool("cascade", cascade))
	return nil
}

// ListByUser returns the user's stories in creation order.
func (r *pgStoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Story, error) {
	stories := []models.Story{}
	if err := pgxscan.Select(ctx, r.db, &stories, listStoriesByUserQuery, userID, limit, offset); err != nil {
		r.logger.Error("Failed to list stories", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

// CountByUser returns the number of stories the user owns.
func (r *pgStoryRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, countStoriesByUserQuery, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count stories: %w", err)
	}
	return count, nil
}

// Search matches the query against story titles and descriptions.
func (r *pgStoryRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Story, error) {
	stories := []models.Story{}
	if err := pgxscan.Select(ctx, r.db, &stories, searchStoriesQuery, userID, query); err != nil {
		r.logger.Error("Failed to search stories", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("failed to search stories: %w", err)
	}
	return stories, nil
}
