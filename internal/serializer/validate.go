package serializer

import (
	"encoding/json"
	"fmt"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// docKeys lists every key a full document of the type carries. Marshaling
// always emits the complete set, so validation demands exactly these keys,
// or exactly the three stub keys with ref=true. There is no deserializer;
// documents are an export format only.
var docKeys = map[models.EntityType][]string{
	models.EntityStory: {"type", "id", "title", "description", "authors", "chapters",
		"characters", "events", "locations", "notes", "links", "bibliographies", "submissions"},
	models.EntityChapter: {"type", "id", "title", "description", "position", "scenes", "notes", "links"},
	models.EntityScene:   {"type", "id", "title", "description", "content", "position", "notes", "links"},
	models.EntityCharacter: {"type", "id", "honorific", "firstName", "middleName", "lastName",
		"description", "traits", "relationships", "events", "images", "notes", "links"},
	models.EntityEvent: {"type", "id", "title", "description", "startDatetime", "endDatetime",
		"locations", "notes", "links"},
	models.EntityLocation:     {"type", "id", "name", "description", "images", "notes", "links"},
	models.EntityNote:         {"type", "id", "title", "content"},
	models.EntityLink:         {"type", "id", "title", "url"},
	models.EntityImage:        {"type", "id", "path", "sizeBytes", "mimeType", "caption"},
	models.EntityAuthor:       {"type", "id", "name", "initials", "isPseudonym"},
	models.EntityBibliography: {"type", "id", "title", "pages", "publisher", "publicationDate", "authors"},
	models.EntitySubmission:   {"type", "id", "market", "dateSent", "result", "amount"},
}

// childSlots names the keys holding nested document arrays per type.
var childSlots = map[models.EntityType][]string{
	models.EntityStory:        {"authors", "chapters", "characters", "events", "locations", "notes", "links", "bibliographies", "submissions"},
	models.EntityChapter:      {"scenes", "notes", "links"},
	models.EntityScene:        {"notes", "links"},
	models.EntityCharacter:    {"events", "images", "notes", "links"},
	models.EntityEvent:        {"locations", "notes", "links"},
	models.EntityLocation:     {"images", "notes", "links"},
	models.EntityBibliography: {"authors"},
}

var traitKeys = []string{"id", "name", "magnitude", "position"}
var relationshipKeys = []string{"id", "relationType", "description", "position", "related"}

// ValidateDocument checks that raw is a structurally valid export document:
// known type tags, well-formed ids, exact key sets (unknown fields
// rejected), closed enum values and well-formed reference stubs, applied
// recursively.
func ValidateDocument(raw []byte) error {
	var node map[string]any
	if err := json.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("document is not a JSON object: %w", models.ErrValidation)
	}
	return validateNode(node)
}

func validateNode(node map[string]any) error {
	typeVal, ok := node["type"].(string)
	if !ok {
		return fmt.Errorf("document node is missing a type tag: %w", models.ErrValidation)
	}
	entityType := models.EntityType(typeVal)
	keys, known := docKeys[entityType]
	if !known {
		return fmt.Errorf("unknown document type %q: %w", typeVal, models.ErrValidation)
	}

	idVal, ok := node["id"].(string)
	if !ok {
		return fmt.Errorf("%s node is missing an id: %w", typeVal, models.ErrValidation)
	}
	if _, err := uuid.Parse(idVal); err != nil {
		return fmt.Errorf("%s node has a malformed id %q: %w", typeVal, idVal, models.ErrValidation)
	}

	// A stub must be exactly {type, id, ref:true}.
	if refVal, isStub := node["ref"]; isStub {
		if refVal != true {
			return fmt.Errorf("%s stub has ref != true: %w", typeVal, models.ErrValidation)
		}
		if len(node) != 3 {
			return fmt.Errorf("%s stub carries extra fields: %w", typeVal, models.ErrValidation)
		}
		return nil
	}

	if err := checkExactKeys(typeVal, node, keys); err != nil {
		return err
	}
	if err := validateEnums(entityType, node); err != nil {
		return err
	}

	for _, slot := range childSlots[entityType] {
		items, ok := node[slot].([]any)
		if !ok {
			return fmt.Errorf("%s.%s is not an array: %w", typeVal, slot, models.ErrValidation)
		}
		for _, item := range items {
			child, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("%s.%s holds a non-object entry: %w", typeVal, slot, models.ErrValidation)
			}
			if err := validateNode(child); err != nil {
				return err
			}
		}
	}

	if entityType == models.EntityCharacter {
		return validateCharacterExtras(node)
	}
	return nil
}

func validateCharacterExtras(node map[string]any) error {
	traits, ok := node["traits"].([]any)
	if !ok {
		return fmt.Errorf("character.traits is not an array: %w", models.ErrValidation)
	}
	for _, item := range traits {
		trait, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("character.traits holds a non-object entry: %w", models.ErrValidation)
		}
		if err := checkExactKeys("trait", trait, traitKeys); err != nil {
			return err
		}
	}

	rels, ok := node["relationships"].([]any)
	if !ok {
		return fmt.Errorf("character.relationships is not an array: %w", models.ErrValidation)
	}
	for _, item := range rels {
		rel, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("character.relationships holds a non-object entry: %w", models.ErrValidation)
		}
		if err := checkExactKeys("relationship", rel, relationshipKeys); err != nil {
			return err
		}
		relType, ok := rel["relationType"].(string)
		if !ok || !models.RelationshipType(relType).Valid() {
			return fmt.Errorf("unknown relationship type %v: %w", rel["relationType"], models.ErrValidation)
		}
		related, ok := rel["related"].(map[string]any)
		if !ok {
			return fmt.Errorf("relationship.related is not an object: %w", models.ErrValidation)
		}
		if err := validateNode(related); err != nil {
			return err
		}
	}
	return nil
}

func validateEnums(entityType models.EntityType, node map[string]any) error {
	switch entityType {
	case models.EntityImage:
		mime, ok := node["mimeType"].(string)
		if !ok || !models.ImageMimeType(mime).Valid() {
			return fmt.Errorf("unknown image mime type %v: %w", node["mimeType"], models.ErrValidation)
		}
	case models.EntitySubmission:
		result, ok := node["result"].(string)
		if !ok || !models.SubmissionResult(result).Valid() {
			return fmt.Errorf("unknown submission result %v: %w", node["result"], models.ErrValidation)
		}
	}
	return nil
}

func checkExactKeys(label string, node map[string]any, keys []string) error {
	if len(node) != len(keys) {
		for _, key := range keys {
			if _, ok := node[key]; !ok {
				return fmt.Errorf("%s node is missing field %q: %w", label, key, models.ErrValidation)
			}
		}
		return fmt.Errorf("%s node carries unknown fields: %w", label, models.ErrValidation)
	}
	for _, key := range keys {
		if _, ok := node[key]; !ok {
			return fmt.Errorf("%s node is missing field %q: %w", label, key, models.ErrValidation)
		}
	}
	return nil
}
