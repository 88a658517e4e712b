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
var _ interfaces.SubmissionRepository = (*pgSubmissionRepository)(nil)

type pgSubmissionRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgSubmissionRepository creates a PostgreSQL-backed submission
// repository.
func NewPgSubmissionRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.SubmissionRepository {
	return &pgSubmissionRepository{
		db:     db,
		logger: logger.Named("PgSubmissionRepo"),
	}
}

const createSubmissionQuery = `
INSERT INTO submissions (id, user_id, story_id, market, date_sent, result, amount, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getSubmissionByIDQuery = `
SELECT id, user_id, story_id, market, date_sent, result, amount, created_at, updated_at
FROM submissions
WHERE id = $1`

const updateSubmissionQuery = `
UPDATE submissions
SET market = $2, date_sent = $3, result = $4, amount = $5, updated_at = $6
WHERE id = $1`

const listSubmissionsByStoryQuery = `
SELECT id, user_id, story_id, market, date_sent, result, amount, created_at, updated_at
FROM submissions
WHERE story_id = $1
ORDER BY created_at, id`

const deleteSubmissionQuery = `DELETE FROM submissions WHERE id = $1`

func (r *pgSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	now := time.Now().UTC()
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}
	submission.UpdatedAt = now

	_, err := r.db.Exec(ctx, createSubmissionQuery,
		submission.ID, submission.UserID, submission.StoryID, submission.Market,
		submission.DateSent, submission.Result, submission.Amount,
		submission.CreatedAt, submission.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create submission", zap.Error(err), zap.String("submissionID", submission.ID.String()))
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	submission := &models.Submission{}
	err := r.db.QueryRow(ctx, getSubmissionByIDQuery, id).Scan(
		&submission.ID, &submission.UserID, &submission.StoryID, &submission.Market,
		&submission.DateSent, &submission.Result, &submission.Amount,
		&submission.CreatedAt, &submission.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission %s: %w", id, err)
	}
	return submission, nil
}

func (r *pgSubmissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	submission.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateSubmissionQuery,
		submission.ID, submission.Market, submission.DateSent, submission.Result,
		submission.Amount, submission.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update submission %s: %w", submission.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes the submission record. Submissions never appear in the
// relation table so there is nothing else to clean.
func (r *pgSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteSubmissionQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Submission, error) {
	submissions := []models.Submission{}
	if err := pgxscan.Select(ctx, r.db, &submissions, listSubmissionsByStoryQuery, storyID); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}
