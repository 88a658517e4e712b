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
var _ interfaces.BibliographyRepository = (*pgBibliographyRepository)(nil)

type pgBibliographyRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgBibliographyRepository creates a PostgreSQL-backed bibliography
// repository.
func NewPgBibliographyRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.BibliographyRepository {
	return &pgBibliographyRepository{
		db:     db,
		logger: logger.Named("PgBibliographyRepo"),
	}
}

const createBibliographyQuery = `
INSERT INTO bibliographies (id, user_id, story_id, title, pages, publisher, publication_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getBibliographyByIDQuery = `
SELECT id, user_id, story_id, title, pages, publisher, publication_date, created_at, updated_at
FROM bibliographies
WHERE id = $1`

const updateBibliographyQuery = `
UPDATE bibliographies
SET title = $2, pages = $3, publisher = $4, publication_date = $5, updated_at = $6
WHERE id = $1`

const listBibliographiesByStoryQuery = `
SELECT id, user_id, story_id, title, pages, publisher, publication_date, created_at, updated_at
FROM bibliographies
WHERE story_id = $1
ORDER BY created_at, id`

func (r *pgBibliographyRepository) Create(ctx context.Context, entry *models.Bibliography) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	_, err := r.db.Exec(ctx, createBibliographyQuery,
		entry.ID, entry.UserID, entry.StoryID, entry.Title, entry.Pages,
		entry.Publisher, entry.PublicationDate, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create bibliography entry", zap.Error(err), zap.String("entryID", entry.ID.String()))
		return fmt.Errorf("failed to create bibliography entry: %w", err)
	}
	return nil
}

func (r *pgBibliographyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bibliography, error) {
	entry := &models.Bibliography{}
	err := r.db.QueryRow(ctx, getBibliographyByIDQuery, id).Scan(
		&entry.ID, &entry.UserID, &entry.StoryID, &entry.Title, &entry.Pages,
		&entry.Publisher, &entry.PublicationDate, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bibliography entry %s: %w", id, err)
	}
	return entry, nil
}

func (r *pgBibliographyRepository) Update(ctx context.Context, entry *models.Bibliography) error {
	entry.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateBibliographyQuery,
		entry.ID, entry.Title, entry.Pages, entry.Publisher, entry.PublicationDate, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update bibliography entry %s: %w", entry.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgBibliographyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteOwnedEntity(ctx, r.db, r.logger, "bibliographies", models.EntityBibliography, id)
}

func (r *pgBibliographyRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Bibliography, error) {
	entries := []models.Bibliography{}
	if err := pgxscan.Select(ctx, r.db, &entries, listBibliographiesByStoryQuery, storyID); err != nil {
		return nil, fmt.Errorf("failed to list bibliography entries: %w", err)
	}
	return entries, nil
}
