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
var _ interfaces.NoteRepository = (*pgNoteRepository)(nil)

type pgNoteRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgNoteRepository creates a PostgreSQL-backed note repository.
func NewPgNoteRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.NoteRepository {
	return &pgNoteRepository{
		db:     db,
		logger: logger.Named("PgNoteRepo"),
	}
}

const createNoteQuery = `
INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const getNoteByIDQuery = `
SELECT id, user_id, title, content, created_at, updated_at
FROM notes
WHERE id = $1`

const updateNoteQuery = `
UPDATE notes
SET title = $2, content = $3, updated_at = $4
WHERE id = $1`

const listNotesByUserQuery = `
SELECT id, user_id, title, content, created_at, updated_at
FROM notes
WHERE user_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

const searchNotesQuery = `
SELECT id, user_id, title, content, created_at, updated_at
FROM notes
WHERE user_id = $1 AND (title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
ORDER BY created_at, id`

func (r *pgNoteRepository) Create(ctx context.Context, note *models.Note) error {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	now := time.Now().UTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	_, err := r.db.Exec(ctx, createNoteQuery,
		note.ID, note.UserID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create note", zap.Error(err), zap.String("noteID", note.ID.String()))
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *pgNoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	note := &models.Note{}
	err := r.db.QueryRow(ctx, getNoteByIDQuery, id).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return note, nil
}

func (r *pgNoteRepository) Update(ctx context.Context, note *models.Note) error {
	note.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateNoteQuery,
		note.ID, note.Title, note.Content, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update note %s: %w", note.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteOwnedEntity(ctx, r.db, r.logger, "notes", models.EntityNote, id)
}

func (r *pgNoteRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Note, error) {
	notes := []models.Note{}
	if err := pgxscan.Select(ctx, r.db, &notes, listNotesByUserQuery, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (r *pgNoteRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Note, error) {
	notes := []models.Note{}
	if err := pgxscan.Select(ctx, r.db, &notes, searchNotesQuery, userID, query); err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	return notes, nil
}
