package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSource serves documents from memory. A relation key is
// ownerType/ownerID/relatedType.
type fakeSource struct {
	stories       map[uuid.UUID]*models.Story
	chapters      map[uuid.UUID]*models.Chapter
	scenes        map[uuid.UUID]*models.Scene
	characters    map[uuid.UUID]*models.Character
	traits        map[uuid.UUID][]models.CharacterTrait
	relationships map[uuid.UUID][]models.CharacterRelationship
	events        map[uuid.UUID]*models.Event
	locations     map[uuid.UUID]*models.Location
	notes         map[uuid.UUID]*models.Note
	links         map[uuid.UUID]*models.Link
	images        map[uuid.UUID]*models.Image
	authors       map[uuid.UUID]*models.Author
	bibs          map[uuid.UUID]*models.Bibliography
	subs          map[uuid.UUID]*models.Submission
	storyChapters map[uuid.UUID][]uuid.UUID
	chapterScenes map[uuid.UUID][]uuid.UUID
	storyBibs     map[uuid.UUID][]uuid.UUID
	storySubs     map[uuid.UUID][]uuid.UUID
	relations     map[string][]uuid.UUID
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		stories:       map[uuid.UUID]*models.Story{},
		chapters:      map[uuid.UUID]*models.Chapter{},
		scenes:        map[uuid.UUID]*models.Scene{},
		characters:    map[uuid.UUID]*models.Character{},
		traits:        map[uuid.UUID][]models.CharacterTrait{},
		relationships: map[uuid.UUID][]models.CharacterRelationship{},
		events:        map[uuid.UUID]*models.Event{},
		locations:     map[uuid.UUID]*models.Location{},
		notes:         map[uuid.UUID]*models.Note{},
		links:         map[uuid.UUID]*models.Link{},
		images:        map[uuid.UUID]*models.Image{},
		authors:       map[uuid.UUID]*models.Author{},
		bibs:          map[uuid.UUID]*models.Bibliography{},
		subs:          map[uuid.UUID]*models.Submission{},
		storyChapters: map[uuid.UUID][]uuid.UUID{},
		chapterScenes: map[uuid.UUID][]uuid.UUID{},
		storyBibs:     map[uuid.UUID][]uuid.UUID{},
		storySubs:     map[uuid.UUID][]uuid.UUID{},
		relations:     map[string][]uuid.UUID{},
	}
}

func (f *fakeSource) attach(ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType, relatedID uuid.UUID) {
	key := relKey(ownerType, ownerID, relatedType)
	f.relations[key] = append(f.relations[key], relatedID)
}

func relKey(ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType) string {
	return fmt.Sprintf("%s/%s/%s", ownerType, ownerID, relatedType)
}

func (f *fakeSource) Story(_ context.Context, id uuid.UUID) (*models.Story, error) {
	if s, ok := f.stories[id]; ok {
		return s, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) ChaptersByStory(_ context.Context, storyID uuid.UUID) ([]models.Chapter, error) {
	var out []models.Chapter
	for _, id := range f.storyChapters[storyID] {
		out = append(out, *f.chapters[id])
	}
	return out, nil
}

func (f *fakeSource) Chapter(_ context.Context, id uuid.UUID) (*models.Chapter, error) {
	if c, ok := f.chapters[id]; ok {
		return c, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) ScenesByChapter(_ context.Context, chapterID uuid.UUID) ([]models.Scene, error) {
	var out []models.Scene
	for _, id := range f.chapterScenes[chapterID] {
		out = append(out, *f.scenes[id])
	}
	return out, nil
}

func (f *fakeSource) Scene(_ context.Context, id uuid.UUID) (*models.Scene, error) {
	if s, ok := f.scenes[id]; ok {
		return s, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) Character(_ context.Context, id uuid.UUID) (*models.Character, error) {
	if c, ok := f.characters[id]; ok {
		return c, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) TraitsByCharacter(_ context.Context, characterID uuid.UUID) ([]models.CharacterTrait, error) {
	return f.traits[characterID], nil
}

func (f *fakeSource) RelationshipsByCharacter(_ context.Context, characterID uuid.UUID) ([]models.CharacterRelationship, error) {
	return f.relationships[characterID], nil
}

func (f *fakeSource) Event(_ context.Context, id uuid.UUID) (*models.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) Location(_ context.Context, id uuid.UUID) (*models.Location, error) {
	if l, ok := f.locations[id]; ok {
		return l, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) Note(_ context.Context, id uuid.UUID) (*models.Note, error) {
	if n, ok := f.notes[id]; ok {
		return n, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) Link(_ context.Context, id uuid.UUID) (*models.Link, error) {
	if l, ok := f.links[id]; ok {
		return l, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) Image(_ context.Context, id uuid.UUID) (*models.Image, error) {
	if i, ok := f.images[id]; ok {
		return i, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) Author(_ context.Context, id uuid.UUID) (*models.Author, error) {
	if a, ok := f.authors[id]; ok {
		return a, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) Bibliography(_ context.Context, id uuid.UUID) (*models.Bibliography, error) {
	if b, ok := f.bibs[id]; ok {
		return b, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) Submission(_ context.Context, id uuid.UUID) (*models.Submission, error) {
	if s, ok := f.subs[id]; ok {
		return s, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeSource) BibliographiesByStory(_ context.Context, storyID uuid.UUID) ([]models.Bibliography, error) {
	var out []models.Bibliography
	for _, id := range f.storyBibs[storyID] {
		out = append(out, *f.bibs[id])
	}
	return out, nil
}

func (f *fakeSource) SubmissionsByStory(_ context.Context, storyID uuid.UUID) ([]models.Submission, error) {
	var out []models.Submission
	for _, id := range f.storySubs[storyID] {
		out = append(out, *f.subs[id])
	}
	return out, nil
}

func (f *fakeSource) RelatedIDs(_ context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType) ([]uuid.UUID, error) {
	return f.relations[relKey(ownerType, ownerID, relatedType)], nil
}

var _ Source = (*fakeSource)(nil)

// fakeProvider runs the walk directly against the in-memory source.
type fakeProvider struct {
	src Source
}

func (p fakeProvider) View(_ context.Context, fn func(Source) error) error {
	return fn(p.src)
}

func newTestService(src Source) *Service {
	return NewService(fakeProvider{src: src}, nil, zap.NewNop())
}

func buildStoryFixture(t *testing.T) (*fakeSource, uuid.UUID) {
	t.Helper()
	src := newFakeSource()

	storyID := uuid.New()
	src.stories[storyID] = &models.Story{ID: storyID, Title: "The Long Winter", Description: "A siege novel"}

	ch1 := uuid.New()
	ch2 := uuid.New()
	src.chapters[ch1] = &models.Chapter{ID: ch1, StoryID: storyID, Title: "Arrival", Position: 1}
	src.chapters[ch2] = &models.Chapter{ID: ch2, StoryID: storyID, Title: "Siege", Position: 2}
	src.storyChapters[storyID] = []uuid.UUID{ch1, ch2}

	sc1 := uuid.New()
	sc2 := uuid.New()
	src.scenes[sc1] = &models.Scene{ID: sc1, ChapterID: ch1, Title: "Gates", Content: "The gates opened at dawn.", Position: 1}
	src.scenes[sc2] = &models.Scene{ID: sc2, ChapterID: ch2, Title: "Walls", Content: "Snow piled on the ramparts.", Position: 1}
	src.chapterScenes[ch1] = []uuid.UUID{sc1}
	src.chapterScenes[ch2] = []uuid.UUID{sc2}

	authorID := uuid.New()
	src.authors[authorID] = &models.Author{ID: authorID, Name: "M. Reyes", Initials: "MR"}
	src.attach(models.EntityStory, storyID, models.EntityAuthor, authorID)

	charID := uuid.New()
	src.characters[charID] = &models.Character{ID: charID, FirstName: "Anya", LastName: "Volkov"}
	src.traits[charID] = []models.CharacterTrait{{ID: uuid.New(), CharacterID: charID, Name: "stubborn", Magnitude: 80, Position: 1}}
	src.attach(models.EntityStory, storyID, models.EntityCharacter, charID)

	noteID := uuid.New()
	src.notes[noteID] = &models.Note{ID: noteID, Title: "Timeline", Content: "Winter spans chapters 1-9."}
	src.attach(models.EntityStory, storyID, models.EntityNote, noteID)
	src.attach(models.EntityScene, sc1, models.EntityNote, noteID)

	bibID := uuid.New()
	src.bibs[bibID] = &models.Bibliography{ID: bibID, StoryID: storyID, Title: "Siege Warfare", Publisher: "Archive Press"}
	src.storyBibs[storyID] = []uuid.UUID{bibID}
	src.attach(models.EntityBibliography, bibID, models.EntityAuthor, authorID)

	subID := uuid.New()
	src.subs[subID] = &models.Submission{ID: subID, StoryID: storyID, Market: "Asimov's", Result: models.SubmissionPending}
	src.storySubs[storyID] = []uuid.UUID{subID}

	return src, storyID
}

func TestSerializeStory(t *testing.T) {
	src, storyID := buildStoryFixture(t)
	svc := newTestService(src)

	t.Run("deterministic output", func(t *testing.T) {
		first, err := svc.SerializeStory(context.Background(), storyID)
		require.NoError(t, err)
		second, err := svc.SerializeStory(context.Background(), storyID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("document validates", func(t *testing.T) {
		doc, err := svc.SerializeStory(context.Background(), storyID)
		require.NoError(t, err)
		require.NoError(t, ValidateDocument(doc))
	})

	t.Run("shared note becomes a stub on second visit", func(t *testing.T) {
		raw, err := svc.SerializeStory(context.Background(), storyID)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(raw, &doc))

		// First occurrence: expanded under the story.
		notes := doc["notes"].([]any)
		require.Len(t, notes, 1)
		fullNote := notes[0].(map[string]any)
		assert.Equal(t, "Timeline", fullNote["title"])
		assert.NotContains(t, fullNote, "ref")

		// Second occurrence: the scene that shares it holds a stub.
		chapters := doc["chapters"].([]any)
		scene := chapters[0].(map[string]any)["scenes"].([]any)[0].(map[string]any)
		sceneNotes := scene["notes"].([]any)
		require.Len(t, sceneNotes, 1)
		stub := sceneNotes[0].(map[string]any)
		assert.Equal(t, true, stub["ref"])
		assert.Equal(t, "note", stub["type"])
		assert.Len(t, stub, 3)
	})

	t.Run("unknown story", func(t *testing.T) {
		_, err := svc.SerializeStory(context.Background(), uuid.New())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestSerializeCharacterCycle(t *testing.T) {
	src := newFakeSource()

	anya := uuid.New()
	boris := uuid.New()
	src.characters[anya] = &models.Character{ID: anya, FirstName: "Anya"}
	src.characters[boris] = &models.Character{ID: boris, FirstName: "Boris"}
	src.relationships[anya] = []models.CharacterRelationship{{
		ID: uuid.New(), ParentID: anya, RelatedID: boris,
		Type: models.RelationshipFamily, Position: 1,
	}}
	src.relationships[boris] = []models.CharacterRelationship{{
		ID: uuid.New(), ParentID: boris, RelatedID: anya,
		Type: models.RelationshipFamily, Position: 1,
	}}

	svc := newTestService(src)
	raw, err := svc.SerializeCharacter(context.Background(), anya)
	require.NoError(t, err)
	require.NoError(t, ValidateDocument(raw))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	rels := doc["relationships"].([]any)
	require.Len(t, rels, 1)
	related := rels[0].(map[string]any)["related"].(map[string]any)
	assert.Equal(t, "Boris", related["firstName"])

	// Boris points back at Anya; the cycle terminates in a stub.
	back := related["relationships"].([]any)[0].(map[string]any)["related"].(map[string]any)
	assert.Equal(t, true, back["ref"])
	assert.Equal(t, "character", back["type"])
	assert.Equal(t, anya.String(), back["id"])
}

func TestSerializeStoryUsesCache(t *testing.T) {
	src, storyID := buildStoryFixture(t)

	cached := []byte(`{"cached":true}`)
	cacheHits := 0
	svc := NewService(fakeProvider{src: src}, staticCache{doc: cached, hits: &cacheHits}, zap.NewNop())

	out, err := svc.SerializeStory(context.Background(), storyID)
	require.NoError(t, err)
	assert.Equal(t, cached, out)
	assert.Equal(t, 1, cacheHits)
}

type staticCache struct {
	doc  []byte
	hits *int
}

func (c staticCache) Get(context.Context, uuid.UUID) ([]byte, error) {
	*c.hits = *c.hits + 1
	return c.doc, nil
}
func (c staticCache) Set(context.Context, uuid.UUID, []byte) error { return nil }
func (c staticCache) Invalidate(context.Context, uuid.UUID) error  { return nil }

func TestValidateDocument(t *testing.T) {
	src, storyID := buildStoryFixture(t)
	svc := newTestService(src)
	valid, err := svc.SerializeStory(context.Background(), storyID)
	require.NoError(t, err)

	mutate := func(t *testing.T, fn func(doc map[string]any)) []byte {
		t.Helper()
		var doc map[string]any
		require.NoError(t, json.Unmarshal(valid, &doc))
		fn(doc)
		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		return raw
	}

	t.Run("valid document passes", func(t *testing.T) {
		assert.NoError(t, ValidateDocument(valid))
	})

	t.Run("missing field", func(t *testing.T) {
		raw := mutate(t, func(doc map[string]any) {
			delete(doc, "title")
		})
		assert.ErrorIs(t, ValidateDocument(raw), models.ErrValidation)
	})

	t.Run("unknown field", func(t *testing.T) {
		raw := mutate(t, func(doc map[string]any) {
			doc["wordCount"] = 90000
		})
		assert.ErrorIs(t, ValidateDocument(raw), models.ErrValidation)
	})

	t.Run("unknown type tag", func(t *testing.T) {
		raw := mutate(t, func(doc map[string]any) {
			doc["type"] = "manuscript"
		})
		assert.ErrorIs(t, ValidateDocument(raw), models.ErrValidation)
	})

	t.Run("bad submission result", func(t *testing.T) {
		raw := mutate(t, func(doc map[string]any) {
			sub := doc["submissions"].([]any)[0].(map[string]any)
			sub["result"] = "lost_in_mail"
		})
		assert.ErrorIs(t, ValidateDocument(raw), models.ErrValidation)
	})

	t.Run("stub with extra key", func(t *testing.T) {
		raw := mutate(t, func(doc map[string]any) {
			scene := doc["chapters"].([]any)[0].(map[string]any)["scenes"].([]any)[0].(map[string]any)
			stub := scene["notes"].([]any)[0].(map[string]any)
			stub["title"] = "smuggled"
		})
		assert.ErrorIs(t, ValidateDocument(raw), models.ErrValidation)
	})

	t.Run("malformed id", func(t *testing.T) {
		raw := mutate(t, func(doc map[string]any) {
			doc["id"] = "not-a-uuid"
		})
		assert.ErrorIs(t, ValidateDocument(raw), models.ErrValidation)
	})
}
