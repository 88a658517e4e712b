package database

import (
	"context"
	"fmt"
	"time"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.RelationRepository = (*pgRelationRepository)(nil)

// pgRelationRepository stores every many-to-many join of the domain in one
// polymorphic edge table keyed by (owner type, owner id, related type,
// related id).
type pgRelationRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgRelationRepository creates a PostgreSQL-backed relation repository.
func NewPgRelationRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.RelationRepository {
	return &pgRelationRepository{
		db:     db,
		logger: logger.Named("PgRelationRepo"),
	}
}

const relationExistsQuery = `
SELECT count(*) FROM entity_relations
WHERE owner_type = $1 AND owner_id = $2 AND related_type = $3 AND related_id = $4`

const nextRelationPositionQuery = `
SELECT coalesce(max(position), 0) + 1 FROM entity_relations
WHERE owner_type = $1 AND owner_id = $2 AND related_type = $3`

const insertRelationQuery = `
INSERT INTO entity_relations (id, owner_type, owner_id, related_type, related_id, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const deleteRelationQuery = `
DELETE FROM entity_relations
WHERE owner_type = $1 AND owner_id = $2 AND related_type = $3 AND related_id = $4`

const relatedIDsQuery = `
SELECT related_id FROM entity_relations
WHERE owner_type = $1 AND owner_id = $2 AND related_type = $3
ORDER BY position`

const ownerIDsQuery = `
SELECT owner_id FROM entity_relations
WHERE related_type = $1 AND related_id = $2 AND owner_type = $3
ORDER BY created_at`

const deleteAllRelationsForQuery = `
DELETE FROM entity_relations
WHERE (owner_type = $1 AND owner_id = $2) OR (related_type = $1 AND related_id = $2)`

// Attach appends the edge at the end of its (owner, related type) group.
// An edge that already exists is models.ErrConflict.
func (r *pgRelationRepository) Attach(ctx context.Context, rel *models.Relation) error {
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists int
	if err := tx.QueryRow(ctx, relationExistsQuery,
		rel.OwnerType, rel.OwnerID, rel.RelatedType, rel.RelatedID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check relation existence: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%s %s is already attached to %s %s: %w",
			rel.RelatedType, rel.RelatedID, rel.OwnerType, rel.OwnerID, models.ErrConflict)
	}

	if err := tx.QueryRow(ctx, nextRelationPositionQuery,
		rel.OwnerType, rel.OwnerID, rel.RelatedType).Scan(&rel.Position); err != nil {
		return fmt.Errorf("failed to compute relation position: %w", err)
	}

	if _, err := tx.Exec(ctx, insertRelationQuery,
		rel.ID, rel.OwnerType, rel.OwnerID, rel.RelatedType, rel.RelatedID,
		rel.Position, rel.CreatedAt,
	); err != nil {
		r.logger.Error("Failed to attach relation", zap.Error(err),
			zap.String("owner", string(rel.OwnerType)), zap.String("related", string(rel.RelatedType)))
		return fmt.Errorf("failed to attach relation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit attach: %w", err)
	}
	r.logger.Debug("Relation attached",
		zap.String("ownerType", string(rel.OwnerType)), zap.String("ownerID", rel.OwnerID.String()),
		zap.String("relatedType", string(rel.RelatedType)), zap.String("relatedID", rel.RelatedID.String()))
	return nil
}

// Detach removes one edge; a missing edge is models.ErrNotFound.
func (r *pgRelationRepository) Detach(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType, relatedID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteRelationQuery, ownerType, ownerID, relatedType, relatedID)
	if err != nil {
		r.logger.Error("Failed to detach relation", zap.Error(err))
		return fmt.Errorf("failed to detach relation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RelatedIDs lists the far-side ids in position order.
func (r *pgRelationRepository) RelatedIDs(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, relatedIDsQuery, ownerType, ownerID, relatedType)
	if err != nil {
		return nil, fmt.Errorf("failed to list related ids: %w", err)
	}
	defer rows.Close()
	return scanUUIDs(rows)
}

// OwnerIDs lists the near-side ids for a given related entity.
func (r *pgRelationRepository) OwnerIDs(ctx context.Context, relatedType models.EntityType, relatedID uuid.UUID, ownerType models.EntityType) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, ownerIDsQuery, relatedType, relatedID, ownerType)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner ids: %w", err)
	}
	defer rows.Close()
	return scanUUIDs(rows)
}

// DeleteAllFor removes every edge with the entity on either side.
func (r *pgRelationRepository) DeleteAllFor(ctx context.Context, entityType models.EntityType, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, deleteAllRelationsForQuery, entityType, id); err != nil {
		r.logger.Error("Failed to delete relations", zap.Error(err),
			zap.String("entityType", string(entityType)), zap.String("entityID", id.String()))
		return fmt.Errorf("failed to delete relations for %s %s: %w", entityType, id, err)
	}
	return nil
}

func scanUUIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ids: %w", err)
	}
	return ids, nil
}
