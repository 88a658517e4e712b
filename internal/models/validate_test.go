package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryValidate(t *testing.T) {
	t.Run("trims and accepts a normal title", func(t *testing.T) {
		story := &Story{Title: "  The Long Rain  "}
		require.NoError(t, story.Validate())
		assert.Equal(t, "The Long Rain", story.Title)
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		story := &Story{Title: "   "}
		assert.ErrorIs(t, story.Validate(), ErrValidation)
	})

	t.Run("rejects an oversized title", func(t *testing.T) {
		story := &Story{Title: strings.Repeat("x", 251)}
		assert.ErrorIs(t, story.Validate(), ErrValidation)
	})

	t.Run("rejects an oversized description", func(t *testing.T) {
		story := &Story{Title: "ok", Description: strings.Repeat("x", 65536)}
		assert.ErrorIs(t, story.Validate(), ErrValidation)
	})
}

func TestChapterValidate(t *testing.T) {
	chapter := &Chapter{Title: "Chapter One"}
	assert.ErrorIs(t, chapter.Validate(), ErrValidation, "chapter without a story")

	chapter.StoryID = uuid.New()
	assert.NoError(t, chapter.Validate())
}

func TestSceneValidate(t *testing.T) {
	scene := &Scene{Title: "Opening"}
	assert.ErrorIs(t, scene.Validate(), ErrValidation, "scene without a chapter")

	scene.ChapterID = uuid.New()
	assert.NoError(t, scene.Validate())
}

func TestCharacterName(t *testing.T) {
	character := &Character{Honorific: "Dr.", FirstName: "Anya", LastName: "Volkova"}
	assert.Equal(t, "Dr. Anya Volkova", character.Name())

	character = &Character{LastName: "Volkova"}
	assert.Equal(t, "Volkova", character.Name())
}

func TestCharacterValidate(t *testing.T) {
	character := &Character{Description: "nameless"}
	assert.ErrorIs(t, character.Validate(), ErrValidation)

	character.MiddleName = " de la "
	require.NoError(t, character.Validate())
	assert.Equal(t, "de la", character.MiddleName)
}

func TestCharacterTraitValidate(t *testing.T) {
	trait := &CharacterTrait{Name: "bravery", Magnitude: 80}
	assert.NoError(t, trait.Validate())

	for _, magnitude := range []int{-1, 101} {
		trait := &CharacterTrait{Name: "bravery", Magnitude: magnitude}
		assert.ErrorIs(t, trait.Validate(), ErrValidation, "magnitude %d", magnitude)
	}

	trait = &CharacterTrait{Name: "  ", Magnitude: 10}
	assert.ErrorIs(t, trait.Validate(), ErrValidation)
}

func TestCharacterRelationshipValidate(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	rel := &CharacterRelationship{ParentID: a, RelatedID: b, Type: RelationshipFamily}
	assert.NoError(t, rel.Validate())

	rel = &CharacterRelationship{ParentID: a, RelatedID: a, Type: RelationshipFamily}
	assert.ErrorIs(t, rel.Validate(), ErrValidation, "self reference")

	rel = &CharacterRelationship{ParentID: a, RelatedID: b, Type: "rivalry"}
	assert.ErrorIs(t, rel.Validate(), ErrValidation, "unknown type")
}

func TestCanAttach(t *testing.T) {
	allowed := []struct{ owner, related EntityType }{
		{EntityStory, EntityAuthor},
		{EntityStory, EntityCharacter},
		{EntityStory, EntityNote},
		{EntityChapter, EntityLink},
		{EntityScene, EntityNote},
		{EntityCharacter, EntityImage},
		{EntityCharacter, EntityEvent},
		{EntityEvent, EntityLocation},
		{EntityLocation, EntityImage},
		{EntityBibliography, EntityAuthor},
	}
	for _, pair := range allowed {
		assert.True(t, CanAttach(pair.owner, pair.related), "%s should hold %s", pair.owner, pair.related)
	}

	denied := []struct{ owner, related EntityType }{
		{EntityScene, EntityCharacter},
		{EntityChapter, EntityImage},
		{EntityStory, EntityImage},
		{EntityNote, EntityNote},
		{EntityAuthor, EntityStory},
		{EntityStory, EntityBibliography},
	}
	for _, pair := range denied {
		assert.False(t, CanAttach(pair.owner, pair.related), "%s should not hold %s", pair.owner, pair.related)
	}
}

func TestRelationValidate(t *testing.T) {
	rel := &Relation{
		OwnerType: EntityStory, OwnerID: uuid.New(),
		RelatedType: EntityCharacter, RelatedID: uuid.New(),
	}
	assert.NoError(t, rel.Validate())

	rel.RelatedID = uuid.Nil
	assert.ErrorIs(t, rel.Validate(), ErrValidation, "missing endpoint")

	rel = &Relation{
		OwnerType: EntityNote, OwnerID: uuid.New(),
		RelatedType: EntityStory, RelatedID: uuid.New(),
	}
	assert.ErrorIs(t, rel.Validate(), ErrValidation, "notes own nothing")
}

func TestParseEntityType(t *testing.T) {
	entityType, err := ParseEntityType("scene")
	require.NoError(t, err)
	assert.Equal(t, EntityScene, entityType)

	_, err = ParseEntityType("Scene")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseSubmissionResult(t *testing.T) {
	result, err := ParseSubmissionResult("rewrite_requested")
	require.NoError(t, err)
	assert.Equal(t, SubmissionRewriteRequested, result)

	_, err = ParseSubmissionResult("maybe")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestActivityValidate(t *testing.T) {
	activity := &Activity{Summary: strings.Repeat("x", 251)}
	assert.ErrorIs(t, activity.Validate(), ErrValidation)

	activity = &Activity{EntityType: "widget"}
	assert.ErrorIs(t, activity.Validate(), ErrValidation)

	activity = &Activity{EntityType: EntityScene, Summary: "ok"}
	assert.NoError(t, activity.Validate())
}
