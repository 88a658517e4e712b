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
var _ interfaces.ChapterRepository = (*pgChapterRepository)(nil)

type pgChapterRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgChapterRepository creates a PostgreSQL-backed chapter repository.
func NewPgChapterRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ChapterRepository {
	return &pgChapterRepository{
		db:     db,
		logger: logger.Named("PgChapterRepo"),
	}
}

const createChapterQuery = `
INSERT INTO chapters (id, story_id, title, description, position, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const getChapterByIDQuery = `
SELECT id, story_id, title, description, position, created_at, updated_at
FROM chapters
WHERE id = $1`

const updateChapterQuery = `
UPDATE chapters
SET title = $2, description = $3, updated_at = $4
WHERE id = $1`

const listChaptersByStoryQuery = `
SELECT id, story_id, title, description, position, created_at, updated_at
FROM chapters
WHERE story_id = $1
ORDER BY position`

const countChaptersByStoryQuery = `
SELECT count(*) FROM chapters WHERE story_id = $1`

const shiftChaptersUpFromQuery = `
UPDATE chapters SET position = position + 1 WHERE story_id = $1 AND position >= $2`

const closeChapterGapQuery = `
UPDATE chapters SET position = position - 1 WHERE story_id = $1 AND position > $2`

// Create inserts the chapter at chapter.Position, shifting later siblings
// so positions stay contiguous; position 0 appends at the end. The shift
// and insert run in one transaction.
func (r *pgChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	if chapter.ID == uuid.Nil {
		chapter.ID = uuid.New()
	}
	now := time.Now().UTC()
	if chapter.CreatedAt.IsZero() {
		chapter.CreatedAt = now
	}
	chapter.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, countChaptersByStoryQuery, chapter.StoryID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count chapters: %w", err)
	}
	if chapter.Position < 1 || chapter.Position > count+1 {
		chapter.Position = count + 1
	}
	if chapter.Position <= count {
		if _, err := tx.Exec(ctx, shiftChaptersUpFromQuery, chapter.StoryID, chapter.Position); err != nil {
			return fmt.Errorf("failed to shift chapters: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, createChapterQuery,
		chapter.ID, chapter.StoryID, chapter.Title, chapter.Description,
		chapter.Position, chapter.CreatedAt, chapter.UpdatedAt,
	); err != nil {
		r.logger.Error("Failed to create chapter", zap.Error(err), zap.String("chapterID", chapter.ID.String()))
		return fmt.Errorf("failed to create chapter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit chapter create: %w", err)
	}
	r.logger.Info("Chapter created",
		zap.String("chapterID", chapter.ID.String()),
		zap.String("storyID", chapter.StoryID.String()),
		zap.Int("position", chapter.Position))
	return nil
}

// GetByID retrieves a chapter by its unique ID.
func (r *pgChapterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	chapter := &models.Chapter{}
	err := r.db.QueryRow(ctx, getChapterByIDQuery, id).Scan(
		&chapter.ID, &chapter.StoryID, &chapter.Title, &chapter.Description,
		&chapter.Position, &chapter.CreatedAt, &chapter.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get chapter", zap.Error(err), zap.String("chapterID", id.String()))
		return nil, fmt.Errorf("failed to get chapter %s: %w", id, err)
	}
	return chapter, nil
}

// Update rewrites the chapter's mutable fields; position changes go
// through Move.
func (r *pgChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	chapter.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateChapterQuery,
		chapter.ID, chapter.Title, chapter.Description, chapter.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update chapter", zap.Error(err), zap.String("chapterID", chapter.ID.String()))
		return fmt.Errorf("failed to update chapter %s: %w", chapter.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

const countScenesForChapterQuery = `
SELECT count(*) FROM scenes WHERE chapter_id = $1`

const deleteChapterRelationsQuery = `
DELETE FROM entity_relations
WHERE (owner_type = 'chapter' AND owner_id = $1)
   OR (related_type = 'chapter' AND related_id = $1)
   OR (owner_type = 'scene' AND owner_id IN (SELECT id FROM scenes WHERE chapter_id = $1))
   OR (related_type = 'scene' AND related_id IN (SELECT id FROM scenes WHERE chapter_id = $1))`

const deleteChapterQuery = `DELETE FROM chapters WHERE id = $1`

// Delete removes the chapter and closes the position gap. With
// cascade=false the delete is rejected with models.ErrConflict while
// scenes exist.
func (r *pgChapterRepository) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	chapter := &models.Chapter{}
	err = tx.QueryRow(ctx, getChapterByIDQuery, id).Scan(
		&chapter.ID, &chapter.StoryID, &chapter.Title, &chapter.Description,
		&chapter.Position, &chapter.CreatedAt, &chapter.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to load chapter %s: %w", id, err)
	}

	var sceneCount int
	if err := tx.QueryRow(ctx, countScenesForChapterQuery, id).Scan(&sceneCount); err != nil {
		return fmt.Errorf("failed to count scenes: %w", err)
	}
	if sceneCount > 0 && !cascade {
		r.logger.Debug("Refusing to delete non-empty chapter without cascade", zap.String("chapterID", id.String()))
		return fmt.Errorf("chapter has %d scenes: %w", sceneCount, models.ErrConflict)
	}

	if _, err := tx.Exec(ctx, deleteChapterRelationsQuery, id); err != nil {
		return fmt.Errorf("failed to delete chapter relations: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteChapterQuery, id); err != nil {
		return fmt.Errorf("failed to delete chapter %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx, closeChapterGapQuery, chapter.StoryID, chapter.Position); err != nil {
		return fmt.Errorf("failed to close chapter position gap: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit chapter delete: %w", err)
	}
	r.logger.Info("Chapter deleted", zap.String("chapterID", id.String()), zap.Bool("cascade", cascade))
	return nil
}

const lockChapterQuery = `
SELECT story_id, position FROM chapters WHERE id = $1 FOR UPDATE`

const shiftChaptersDownRangeQuery = `
UPDATE chapters SET position = position - 1
WHERE story_id = $1 AND position > $2 AND position <= $3`

const shiftChaptersUpRangeQuery = `
UPDATE chapters SET position = position + 1
WHERE story_id = $1 AND position >= $3 AND position < $2`

const setChapterPositionQuery = `
UPDATE chapters SET position = $2, updated_at = $3 WHERE id = $1`

// Move repositions the chapter within its story. Siblings between the old
// and new positions shift by one so the sequence stays contiguous and
// unique; everything happens in a single transaction.
func (r *pgChapterRepository) Move(ctx context.Context, id uuid.UUID, position int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var storyID uuid.UUID
	var current int
	if err := tx.QueryRow(ctx, lockChapterQuery, id).Scan(&storyID, &current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to lock chapter %s: %w", id, err)
	}

	var count int
	if err := tx.QueryRow(ctx, countChaptersByStoryQuery, storyID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count chapters: %w", err)
	}
	if position < 1 {
		position = 1
	}
	if position > count {
		position = count
	}
	if position == current {
		return tx.Commit(ctx)
	}

	if position > current {
		_, err = tx.Exec(ctx, shiftChaptersDownRangeQuery, storyID, current, position)
	} else {
		_, err = tx.Exec(ctx, shiftChaptersUpRangeQuery, storyID, current, position)
	}
	if err != nil {
		return fmt.Errorf("failed to shift chapters: %w", err)
	}

	if _, err := tx.Exec(ctx, setChapterPositionQuery, id, position, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set chapter position: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit chapter move: %w", err)
	}
	r.logger.Info("Chapter moved",
		zap.String("chapterID", id.String()),
		zap.Int("from", current), zap.Int("to", position))
	return nil
}

// ListByStory returns the story's chapters in position order.
func (r *pgChapterRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Chapter, error) {
	chapters := []models.Chapter{}
	if err := pgxscan.Select(ctx, r.db, &chapters, listChaptersByStoryQuery, storyID); err != nil {
		r.logger.Error("Failed to list chapters", zap.Error(err), zap.String("storyID", storyID.String()))
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}

// CountByStory returns the number of chapters in the story.
func (r *pgChapterRepository) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, countChaptersByStoryQuery, storyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chapters: %w", err)
	}
	return count, nil
}
