package mocks

import (
	"context"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock StoryRepository
type StoryRepository struct {
	mock.Mock
}

func (m *StoryRepository) Create(ctx context.Context, story *models.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}
func (m *StoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}
func (m *StoryRepository) Update(ctx context.Context, story *models.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}
func (m *StoryRepository) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	args := m.Called(ctx, id, cascade)
	return args.Error(0)
}
func (m *StoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Story, error) {
	args := m.Called(ctx, userID, limit, offset)
	stories, _ := args.Get(0).([]models.Story)
	return stories, args.Error(1)
}
func (m *StoryRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *StoryRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Story, error) {
	args := m.Called(ctx, userID, query)
	stories, _ := args.Get(0).([]models.Story)
	return stories, args.Error(1)
}

var _ interfaces.StoryRepository = (*StoryRepository)(nil)

// Mock ChapterRepository
type ChapterRepository struct {
	mock.Mock
}

func (m *ChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}
func (m *ChapterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	args := m.Called(ctx, id)
	chapter, _ := args.Get(0).(*models.Chapter)
	return chapter, args.Error(1)
}
func (m *ChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}
func (m *ChapterRepository) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	args := m.Called(ctx, id, cascade)
	return args.Error(0)
}
func (m *ChapterRepository) Move(ctx context.Context, id uuid.UUID, position int) error {
	args := m.Called(ctx, id, position)
	return args.Error(0)
}
func (m *ChapterRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Chapter, error) {
	args := m.Called(ctx, storyID)
	chapters, _ := args.Get(0).([]models.Chapter)
	return chapters, args.Error(1)
}
func (m *ChapterRepository) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	args := m.Called(ctx, storyID)
	return args.Int(0), args.Error(1)
}

var _ interfaces.ChapterRepository = (*ChapterRepository)(nil)

// Mock SceneRepository
type SceneRepository struct {
	mock.Mock
}

func (m *SceneRepository) Create(ctx context.Context, scene *models.Scene) error {
	args := m.Called(ctx, scene)
	return args.Error(0)
}
func (m *SceneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	args := m.Called(ctx, id)
	scene, _ := args.Get(0).(*models.Scene)
	return scene, args.Error(1)
}
func (m *SceneRepository) Update(ctx context.Context, scene *models.Scene) error {
	args := m.Called(ctx, scene)
	return args.Error(0)
}
func (m *SceneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *SceneRepository) Move(ctx context.Context, id uuid.UUID, position int) error {
	args := m.Called(ctx, id, position)
	return args.Error(0)
}
func (m *SceneRepository) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]models.Scene, error) {
	args := m.Called(ctx, chapterID)
	scenes, _ := args.Get(0).([]models.Scene)
	return scenes, args.Error(1)
}
func (m *SceneRepository) CountByChapter(ctx context.Context, chapterID uuid.UUID) (int, error) {
	args := m.Called(ctx, chapterID)
	return args.Int(0), args.Error(1)
}
func (m *SceneRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Scene, error) {
	args := m.Called(ctx, userID, query)
	scenes, _ := args.Get(0).([]models.Scene)
	return scenes, args.Error(1)
}

var _ interfaces.SceneRepository = (*SceneRepository)(nil)

// Mock CharacterRepository
type CharacterRepository struct {
	mock.Mock
}

func (m *CharacterRepository) Create(ctx context.Context, character *models.Character) error {
	args := m.Called(ctx, character)
	return args.Error(0)
}
func (m *CharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	args := m.Called(ctx, id)
	character, _ := args.Get(0).(*models.Character)
	return character, args.Error(1)
}
func (m *CharacterRepository) Update(ctx context.Context, character *models.Character) error {
	args := m.Called(ctx, character)
	return args.Error(0)
}
func (m *CharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *CharacterRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Character, error) {
	args := m.Called(ctx, userID, limit, offset)
	characters, _ := args.Get(0).([]models.Character)
	return characters, args.Error(1)
}
func (m *CharacterRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Character, error) {
	args := m.Called(ctx, userID, query)
	characters, _ := args.Get(0).([]models.Character)
	return characters, args.Error(1)
}
func (m *CharacterRepository) CreateTrait(ctx context.Context, trait *models.CharacterTrait) error {
	args := m.Called(ctx, trait)
	return args.Error(0)
}
func (m *CharacterRepository) UpdateTrait(ctx context.Context, trait *models.CharacterTrait) error {
	args := m.Called(ctx, trait)
	return args.Error(0)
}
func (m *CharacterRepository) MoveTrait(ctx context.Context, id uuid.UUID, position int) error {
	args := m.Called(ctx, id, position)
	return args.Error(0)
}
func (m *CharacterRepository) DeleteTrait(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *CharacterRepository) TraitsByCharacter(ctx context.Context, characterID uuid.UUID) ([]models.CharacterTrait, error) {
	args := m.Called(ctx, characterID)
	traits, _ := args.Get(0).([]models.CharacterTrait)
	return traits, args.Error(1)
}
func (m *CharacterRepository) CreateRelationship(ctx context.Context, rel *models.CharacterRelationship) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}
func (m *CharacterRepository) UpdateRelationship(ctx context.Context, rel *models.CharacterRelationship) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}
func (m *CharacterRepository) MoveRelationship(ctx context.Context, id uuid.UUID, position int) error {
	args := m.Called(ctx, id, position)
	return args.Error(0)
}
func (m *CharacterRepository) DeleteRelationship(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *CharacterRepository) RelationshipsByCharacter(ctx context.Context, parentID uuid.UUID) ([]models.CharacterRelationship, error) {
	args := m.Called(ctx, parentID)
	rels, _ := args.Get(0).([]models.CharacterRelationship)
	return rels, args.Error(1)
}
func (m *CharacterRepository) GetRelationship(ctx context.Context, id uuid.UUID) (*models.CharacterRelationship, error) {
	args := m.Called(ctx, id)
	rel, _ := args.Get(0).(*models.CharacterRelationship)
	return rel, args.Error(1)
}
func (m *CharacterRepository) GetTrait(ctx context.Context, id uuid.UUID) (*models.CharacterTrait, error) {
	args := m.Called(ctx, id)
	trait, _ := args.Get(0).(*models.CharacterTrait)
	return trait, args.Error(1)
}

var _ interfaces.CharacterRepository = (*CharacterRepository)(nil)

// Mock NoteRepository
type NoteRepository struct {
	mock.Mock
}

func (m *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	args := m.Called(ctx, id)
	note, _ := args.Get(0).(*models.Note)
	return note, args.Error(1)
}
func (m *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *NoteRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Note, error) {
	args := m.Called(ctx, userID, limit, offset)
	notes, _ := args.Get(0).([]models.Note)
	return notes, args.Error(1)
}
func (m *NoteRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Note, error) {
	args := m.Called(ctx, userID, query)
	notes, _ := args.Get(0).([]models.Note)
	return notes, args.Error(1)
}

var _ interfaces.NoteRepository = (*NoteRepository)(nil)

// Mock RelationRepository
type RelationRepository struct {
	mock.Mock
}

func (m *RelationRepository) Attach(ctx context.Context, rel *models.Relation) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}
func (m *RelationRepository) Detach(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType, relatedID uuid.UUID) error {
	args := m.Called(ctx, ownerType, ownerID, relatedType, relatedID)
	return args.Error(0)
}
func (m *RelationRepository) RelatedIDs(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType) ([]uuid.UUID, error) {
	args := m.Called(ctx, ownerType, ownerID, relatedType)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}
func (m *RelationRepository) OwnerIDs(ctx context.Context, relatedType models.EntityType, relatedID uuid.UUID, ownerType models.EntityType) ([]uuid.UUID, error) {
	args := m.Called(ctx, relatedType, relatedID, ownerType)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}
func (m *RelationRepository) DeleteAllFor(ctx context.Context, entityType models.EntityType, id uuid.UUID) error {
	args := m.Called(ctx, entityType, id)
	return args.Error(0)
}

var _ interfaces.RelationRepository = (*RelationRepository)(nil)

// Mock ActivityRepository
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, activity *models.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}
func (m *ActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Activity, error) {
	args := m.Called(ctx, userID, limit, offset)
	activities, _ := args.Get(0).([]models.Activity)
	return activities, args.Error(1)
}
func (m *ActivityRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.Activity, error) {
	args := m.Called(ctx, sessionID, limit)
	activities, _ := args.Get(0).([]models.Activity)
	return activities, args.Error(1)
}
func (m *ActivityRepository) ListByEntity(ctx context.Context, entityType models.EntityType, entityID uuid.UUID, limit int) ([]models.Activity, error) {
	args := m.Called(ctx, entityType, entityID, limit)
	activities, _ := args.Get(0).([]models.Activity)
	return activities, args.Error(1)
}

var _ interfaces.ActivityRepository = (*ActivityRepository)(nil)

// Mock UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
func (m *UserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

var _ interfaces.UserRepository = (*UserRepository)(nil)

// Mock SnapshotCache
type SnapshotCache struct {
	mock.Mock
}

func (m *SnapshotCache) Get(ctx context.Context, storyID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, storyID)
	doc, _ := args.Get(0).([]byte)
	return doc, args.Error(1)
}
func (m *SnapshotCache) Set(ctx context.Context, storyID uuid.UUID, document []byte) error {
	args := m.Called(ctx, storyID, document)
	return args.Error(0)
}
func (m *SnapshotCache) Invalidate(ctx context.Context, storyID uuid.UUID) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

var _ interfaces.SnapshotCache = (*SnapshotCache)(nil)

// Mock ModelClient
type ModelClient struct {
	mock.Mock
}

func (m *ModelClient) Generate(ctx context.Context, req interfaces.ModelRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

var _ interfaces.ModelClient = (*ModelClient)(nil)
