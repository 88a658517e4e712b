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
var _ interfaces.CharacterRepository = (*pgCharacterRepository)(nil)

type pgCharacterRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgCharacterRepository creates a PostgreSQL-backed character repository
// covering characters, their ordered trait lists and typed relationships.
func NewPgCharacterRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.CharacterRepository {
	return &pgCharacterRepository{
		db:     db,
		logger: logger.Named("PgCharacterRepo"),
	}
}

const createCharacterQuery = `
INSERT INTO characters (id, user_id, honorific, first_name, middle_name, last_name, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getCharacterByIDQuery = `
SELECT id, user_id, honorific, first_name, middle_name, last_name, description, created_at, updated_at
FROM characters
WHERE id = $1`

const updateCharacterQuery = `
UPDATE characters
SET honorific = $2, first_name = $3, middle_name = $4, last_name = $5, description = $6, updated_at = $7
WHERE id = $1`

const listCharactersByUserQuery = `
SELECT id, user_id, honorific, first_name, middle_name, last_name, description, created_at, updated_at
FROM characters
WHERE user_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

const searchCharactersQuery = `
SELECT id, user_id, honorific, first_name, middle_name, last_name, description, created_at, updated_at
FROM characters
WHERE user_id = $1 AND (first_name ILIKE '%' || $2 || '%' OR last_name ILIKE '%' || $2 || '%'
   OR description ILIKE '%' || $2 || '%')
ORDER BY created_at, id`

func (r *pgCharacterRepository) Create(ctx context.Context, character *models.Character) error {
	if character.ID == uuid.Nil {
		character.ID = uuid.New()
	}
	now := time.Now().UTC()
	if character.CreatedAt.IsZero() {
		character.CreatedAt = now
	}
	character.UpdatedAt = now

	_, err := r.db.Exec(ctx, createCharacterQuery,
		character.ID, character.UserID, character.Honorific, character.FirstName,
		character.MiddleName, character.LastName, character.Description,
		character.CreatedAt, character.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create character", zap.Error(err), zap.String("characterID", character.ID.String()))
		return fmt.Errorf("failed to create character: %w", err)
	}
	r.logger.Info("Character created", zap.String("characterID", character.ID.String()))
	return nil
}

func (r *pgCharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	character := &models.Character{}
	err := r.db.QueryRow(ctx, getCharacterByIDQuery, id).Scan(
		&character.ID, &character.UserID, &character.Honorific, &character.FirstName,
		&character.MiddleName, &character.LastName, &character.Description,
		&character.CreatedAt, &character.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get character %s: %w", id, err)
	}
	return character, nil
}

func (r *pgCharacterRepository) Update(ctx context.Context, character *models.Character) error {
	character.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateCharacterQuery,
		character.ID, character.Honorific, character.FirstName, character.MiddleName,
		character.LastName, character.Description, character.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update character %s: %w", character.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes the character, its traits and relationships (FK cascade)
// and every polymorphic join row pointing at it.
func (r *pgCharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteAllRelationsForQuery, models.EntityCharacter, id); err != nil {
		return fmt.Errorf("failed to delete character relations: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete character %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit character delete: %w", err)
	}
	r.logger.Info("Character deleted", zap.String("characterID", id.String()))
	return nil
}

func (r *pgCharacterRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Character, error) {
	characters := []models.Character{}
	if err := pgxscan.Select(ctx, r.db, &characters, listCharactersByUserQuery, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return characters, nil
}

func (r *pgCharacterRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Character, error) {
	characters := []models.Character{}
	if err := pgxscan.Select(ctx, r.db, &characters, searchCharactersQuery, userID, query); err != nil {
		return nil, fmt.Errorf("failed to search characters: %w", err)
	}
	return characters, nil
}

// --- traits ---

const createTraitQuery = `
INSERT INTO character_traits (id, character_id, name, magnitude, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const countTraitsQuery = `
SELECT count(*) FROM character_traits WHERE character_id = $1`

const traitsByCharacterQuery = `
SELECT id, character_id, name, magnitude, position, created_at
FROM character_traits
WHERE character_id = $1
ORDER BY position`

func (r *pgCharacterRepository) CreateTrait(ctx context.Context, trait *models.CharacterTrait) error {
	if trait.ID == uuid.Nil {
		trait.ID = uuid.New()
	}
	if trait.CreatedAt.IsZero() {
		trait.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, countTraitsQuery, trait.CharacterID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count traits: %w", err)
	}
	if trait.Position < 1 || trait.Position > count+1 {
		trait.Position = count + 1
	}
	if trait.Position <= count {
		if _, err := tx.Exec(ctx,
			`UPDATE character_traits SET position = position + 1 WHERE character_id = $1 AND position >= $2`,
			trait.CharacterID, trait.Position); err != nil {
			return fmt.Errorf("failed to shift traits: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, createTraitQuery,
		trait.ID, trait.CharacterID, trait.Name, trait.Magnitude, trait.Position, trait.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create trait: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trait create: %w", err)
	}
	return nil
}

func (r *pgCharacterRepository) GetTrait(ctx context.Context, id uuid.UUID) (*models.CharacterTrait, error) {
	trait := &models.CharacterTrait{}
	err := r.db.QueryRow(ctx,
		`SELECT id, character_id, name, magnitude, position, created_at FROM character_traits WHERE id = $1`, id).
		Scan(&trait.ID, &trait.CharacterID, &trait.Name, &trait.Magnitude, &trait.Position, &trait.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trait %s: %w", id, err)
	}
	return trait, nil
}

func (r *pgCharacterRepository) UpdateTrait(ctx context.Context, trait *models.CharacterTrait) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE character_traits SET name = $2, magnitude = $3 WHERE id = $1`,
		trait.ID, trait.Name, trait.Magnitude)
	if err != nil {
		return fmt.Errorf("failed to update trait %s: %w", trait.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgCharacterRepository) MoveTrait(ctx context.Context, id uuid.UUID, position int) error {
	return r.moveOrdered(ctx, "character_traits", "character_id", id, position)
}

func (r *pgCharacterRepository) DeleteTrait(ctx context.Context, id uuid.UUID) error {
	return r.deleteOrdered(ctx, "character_traits", "character_id", id)
}

func (r *pgCharacterRepository) TraitsByCharacter(ctx context.Context, characterID uuid.UUID) ([]models.CharacterTrait, error) {
	traits := []models.CharacterTrait{}
	if err := pgxscan.Select(ctx, r.db, &traits, traitsByCharacterQuery, characterID); err != nil {
		return nil, fmt.Errorf("failed to list traits: %w", err)
	}
	return traits, nil
}

// --- relationships ---

const createRelationshipQuery = `
INSERT INTO character_relationships (id, parent_id, related_id, relation_type, description, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const relationshipsByCharacterQuery = `
SELECT id, parent_id, related_id, relation_type, description, position, created_at
FROM character_relationships
WHERE parent_id = $1
ORDER BY position`

func (r *pgCharacterRepository) CreateRelationship(ctx context.Context, rel *models.CharacterRelationship) error {
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

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM character_relationships WHERE parent_id = $1`, rel.ParentID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count relationships: %w", err)
	}
	if rel.Position < 1 || rel.Position > count+1 {
		rel.Position = count + 1
	}
	if rel.Position <= count {
		if _, err := tx.Exec(ctx,
			`UPDATE character_relationships SET position = position + 1 WHERE parent_id = $1 AND position >= $2`,
			rel.ParentID, rel.Position); err != nil {
			return fmt.Errorf("failed to shift relationships: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, createRelationshipQuery,
		rel.ID, rel.ParentID, rel.RelatedID, rel.Type, rel.Description, rel.Position, rel.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create relationship: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit relationship create: %w", err)
	}
	return nil
}

func (r *pgCharacterRepository) GetRelationship(ctx context.Context, id uuid.UUID) (*models.CharacterRelationship, error) {
	rel := &models.CharacterRelationship{}
	err := r.db.QueryRow(ctx,
		`SELECT id, parent_id, related_id, relation_type, description, position, created_at
		 FROM character_relationships WHERE id = $1`, id).
		Scan(&rel.ID, &rel.ParentID, &rel.RelatedID, &rel.Type, &rel.Description, &rel.Position, &rel.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get relationship %s: %w", id, err)
	}
	return rel, nil
}

func (r *pgCharacterRepository) UpdateRelationship(ctx context.Context, rel *models.CharacterRelationship) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE character_relationships SET relation_type = $2, description = $3 WHERE id = $1`,
		rel.ID, rel.Type, rel.Description)
	if err != nil {
		return fmt.Errorf("failed to update relationship %s: %w", rel.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgCharacterRepository) MoveRelationship(ctx context.Context, id uuid.UUID, position int) error {
	return r.moveOrdered(ctx, "character_relationships", "parent_id", id, position)
}

func (r *pgCharacterRepository) DeleteRelationship(ctx context.Context, id uuid.UUID) error {
	return r.deleteOrdered(ctx, "character_relationships", "parent_id", id)
}

func (r *pgCharacterRepository) RelationshipsByCharacter(ctx context.Context, parentID uuid.UUID) ([]models.CharacterRelationship, error) {
	rels := []models.CharacterRelationship{}
	if err := pgxscan.Select(ctx, r.db, &rels, relationshipsByCharacterQuery, parentID); err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	return rels, nil
}

// moveOrdered repositions a row in an ordered child table, shifting its
// siblings so positions stay contiguous and unique. The table and parent
// column are trusted constants, never user input.
func (r *pgCharacterRepository) moveOrdered(ctx context.Context, table, parentCol string, id uuid.UUID, position int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var parentID uuid.UUID
	var current int
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s, position FROM %s WHERE id = $1 FOR UPDATE`, parentCol, table), id).
		Scan(&parentID, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to lock row: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, table, parentCol), parentID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count siblings: %w", err)
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
		_, err = tx.Exec(ctx,
			fmt.Sprintf(`UPDATE %s SET position = position - 1 WHERE %s = $1 AND position > $2 AND position <= $3`, table, parentCol),
			parentID, current, position)
	} else {
		_, err = tx.Exec(ctx,
			fmt.Sprintf(`UPDATE %s SET position = position + 1 WHERE %s = $1 AND position >= $3 AND position < $2`, table, parentCol),
			parentID, current, position)
	}
	if err != nil {
		return fmt.Errorf("failed to shift siblings: %w", err)
	}

	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET position = $2 WHERE id = $1`, table), id, position); err != nil {
		return fmt.Errorf("failed to set position: %w", err)
	}
	return tx.Commit(ctx)
}

// deleteOrdered removes a row from an ordered child table and closes the
// position gap it leaves.
func (r *pgCharacterRepository) deleteOrdered(ctx context.Context, table, parentCol string, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var parentID uuid.UUID
	var position int
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s, position FROM %s WHERE id = $1 FOR UPDATE`, parentCol, table), id).
		Scan(&parentID, &position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to lock row: %w", err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id); err != nil {
		return fmt.Errorf("failed to delete row: %w", err)
	}
	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET position = position - 1 WHERE %s = $1 AND position > $2`, table, parentCol),
		parentID, position); err != nil {
		return fmt.Errorf("failed to close position gap: %w", err)
	}
	return tx.Commit(ctx)
}
