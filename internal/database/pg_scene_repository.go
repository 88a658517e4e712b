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
var _ interfaces.SceneRepository = (*pgSceneRepository)(nil)

type pgSceneRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgSceneRepository creates a PostgreSQL-backed scene repository.
func NewPgSceneRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.SceneRepository {
	return &pgSceneRepository{
		db:     db,
		logger: logger.Named("PgSceneRepo"),
	}
}

const createSceneQuery = `
INSERT INTO scenes (id, chapter_id, title, description, content, position, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const getSceneByIDQuery = `
SELECT id, chapter_id, title, description, content, position, created_at, updated_at
FROM scenes
WHERE id = $1`

const updateSceneQuery = `
UPDATE scenes
SET title = $2, description = $3, content = $4, updated_at = $5
WHERE id = $1`

const listScenesByChapterQuery = `
SELECT id, chapter_id, title, description, content, position, created_at, updated_at
FROM scenes
WHERE chapter_id = $1
ORDER BY position`

const countScenesByChapterQuery = `
SELECT count(*) FROM scenes WHERE chapter_id = $1`

const shiftScenesUpFromQuery = `
UPDATE scenes SET position = position + 1 WHERE chapter_id = $1 AND position >= $2`

const closeSceneGapQuery = `
UPDATE scenes SET position = position - 1 WHERE chapter_id = $1 AND position > $2`

const deleteSceneRelationsQuery = `
DELETE FROM entity_relations
WHERE (owner_type = 'scene' AND owner_id = $1)
   OR (related_type = 'scene' AND related_id = $1)`

const deleteSceneQuery = `DELETE FROM scenes WHERE id = $1`

const searchScenesQuery = `
SELECT s.id, s.chapter_id, s.title, s.description, s.content, s.position, s.created_at, s.updated_at
FROM scenes s
JOIN chapters c ON s.chapter_id = c.id
JOIN stories st ON c.story_id = st.id
WHERE st.user_id = $1 AND (s.title ILIKE '%' || $2 || '%' OR s.content ILIKE '%' || $2 || '%')
ORDER BY s.created_at, s.id`

// Create inserts the scene at scene.Position, shifting later siblings;
// position 0 appends at the end. Atomic.
func (r *pgSceneRepository) Create(ctx context.Context, scene *models.Scene) error {
	if scene.ID == uuid.Nil {
		scene.ID = uuid.New()
	}
	now := time.Now().UTC()
	if scene.CreatedAt.IsZero() {
		scene.CreatedAt = now
	}
	scene.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, countScenesByChapterQuery, scene.ChapterID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count scenes: %w", err)
	}
	if scene.Position < 1 || scene.Position > count+1 {
		scene.Position = count + 1
	}
	if scene.Position <= count {
		if _, err := tx.Exec(ctx, shiftScenesUpFromQuery, scene.ChapterID, scene.Position); err != nil {
			return fmt.Errorf("failed to shift scenes: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, createSceneQuery,
		scene.ID, scene.ChapterID, scene.Title, scene.Description, scene.Content,
		scene.Position, scene.CreatedAt, scene.UpdatedAt,
	); err != nil {
		r.logger.Error("Failed to create scene", zap.Error(err), zap.String("sceneID", scene.ID.String()))
		return fmt.Errorf("failed to create scene: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit scene create: %w", err)
	}
	r.logger.Info("Scene created",
		zap.String("sceneID", scene.ID.String()),
		zap.String("chapterID", scene.ChapterID.String()),
		zap.Int("position", scene.Position))
	return nil
}

// GetByID retrieves a scene by its unique ID.
func (r *pgSceneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	scene := &models.Scene{}
	err := r.db.QueryRow(ctx, getSceneByIDQuery, id).Scan(
		&scene.ID, &scene.ChapterID, &scene.Title, &scene.Description, &scene.Content,
		&scene.Position, &scene.CreatedAt, &scene.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get scene", zap.Error(err), zap.String("sceneID", id.String()))
		return nil, fmt.Errorf("failed to get scene %s: %w", id, err)
	}
	return scene, nil
}

// Update rewrites the scene's mutable fields including the prose body.
func (r *pgSceneRepository) Update(ctx context.Context, scene *models.Scene) error {
	scene.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateSceneQuery,
		scene.ID, scene.Title, scene.Description, scene.Content, scene.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update scene", zap.Error(err), zap.String("sceneID", scene.ID.String()))
		return fmt.Errorf("failed to update scene %s: %w", scene.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes the scene, its join rows and closes the position gap.
func (r *pgSceneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var chapterID uuid.UUID
	var position int
	err = tx.QueryRow(ctx, `SELECT chapter_id, position FROM scenes WHERE id = $1 FOR UPDATE`, id).
		Scan(&chapterID, &position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to load scene %s: %w", id, err)
	}

	if _, err := tx.Exec(ctx, deleteSceneRelationsQuery, id); err != nil {
		return fmt.Errorf("failed to delete scene relations: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteSceneQuery, id); err != nil {
		return fmt.Errorf("failed to delete scene %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx, closeSceneGapQuery, chapterID, position); err != nil {
		return fmt.Errorf("failed to close scene position gap: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit scene delete: %w", err)
	}
	r.logger.Info("Scene deleted", zap.String("sceneID", id.String()))
	return nil
}

const lockSceneQuery = `
SELECT chapter_id, position FROM scenes WHERE id = $1 FOR UPDATE`

const shiftScenesDownRangeQuery = `
UPDATE scenes SET position = position - 1
WHERE chapter_id = $1 AND position > $2 AND position <= $3`

const shiftScenesUpRangeQuery = `
UPDATE scenes SET position = position + 1
WHERE chapter_id = $1 AND position >= $3 AND position < $2`

const setScenePositionQuery = `
UPDATE scenes SET position = $2, updated_at = $3 WHERE id = $1`

// Move repositions the scene within its chapter, keeping sibling positions
// contiguous and unique. Atomic.
func (r *pgSceneRepository) Move(ctx context.Context, id uuid.UUID, position int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var chapterID uuid.UUID
	var current int
	if err := tx.QueryRow(ctx, lockSceneQuery, id).Scan(&chapterID, &current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to lock scene %s: %w", id, err)
	}

	var count int
	if err := tx.QueryRow(ctx, countScenesByChapterQuery, chapterID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count scenes: %w", err)
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
		_, err = tx.Exec(ctx, shiftScenesDownRangeQuery, chapterID, current, position)
	} else {
		_, err = tx.Exec(ctx, shiftScenesUpRangeQuery, chapterID, current, position)
	}
	if err != nil {
		return fmt.Errorf("failed to shift scenes: %w", err)
	}

	if _, err := tx.Exec(ctx, setScenePositionQuery, id, position, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set scene position: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit scene move: %w", err)
	}
	r.logger.Info("Scene moved",
		zap.String("sceneID", id.String()),
		zap.Int("from", current), zap.Int("to", position))
	return nil
}

// ListByChapter returns the chapter's scenes in position order.
func (r *pgSceneRepository) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]models.Scene, error) {
	scenes := []models.Scene{}
	if err := pgxscan.Select(ctx, r.db, &scenes, listScenesByChapterQuery, chapterID); err != nil {
		r.logger.Error("Failed to list scenes", zap.Error(err), zap.String("chapterID", chapterID.String()))
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	return scenes, nil
}

// CountByChapter returns the number of scenes in the chapter.
func (r *pgSceneRepository) CountByChapter(ctx context.Context, chapterID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, countScenesByChapterQuery, chapterID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scenes: %w", err)
	}
	return count, nil
}

// Search matches the query against scene titles and prose bodies across
// the user's stories.
func (r *pgSceneRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Scene, error) {
	scenes := []models.Scene{}
	if err := pgxscan.Select(ctx, r.db, &scenes, searchScenesQuery, userID, query); err != nil {
		r.logger.Error("Failed to search scenes", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("failed to search scenes: %w", err)
	}
	return scenes, nil
}
