package serializer

import (
	"context"
	"encoding/json"
	"fmt"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service turns stored entities into export documents. Serialization is
// read-only and deterministic: the same data yields byte-identical output.
type Service struct {
	provider SourceProvider
	cache    interfaces.SnapshotCache
	logger   *zap.Logger
}

// NewService creates a serializer over the given source provider. cache may
// be nil; only full story documents are cached.
func NewService(provider SourceProvider, cache interfaces.SnapshotCache, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		logger:   logger.Named("Serializer"),
	}
}

// SerializeStory exports the full story aggregate. Cached per story id
// until a mutating controller invalidates it.
func (s *Service) SerializeStory(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
			s.logger.Debug("Story snapshot cache hit", zap.String("storyID", id.String()))
			return cached, nil
		}
	}

	out, err := s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.story(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, id, out); err != nil {
			s.logger.Warn("Failed to cache story snapshot", zap.Error(err), zap.String("storyID", id.String()))
		}
	}
	return out, nil
}

// SerializeChapter exports a chapter with its scenes.
func (s *Service) SerializeChapter(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.chapter(ctx, id)
	})
}

// SerializeScene exports a single scene with its annotations.
func (s *Service) SerializeScene(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.scene(ctx, id)
	})
}

// SerializeCharacter exports a character with traits, relationships and
// attachments. Relationship far sides already visited appear as stubs.
func (s *Service) SerializeCharacter(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.character(ctx, id)
	})
}

// SerializeEvent exports an event with its locations and annotations.
func (s *Service) SerializeEvent(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.event(ctx, id)
	})
}

// SerializeLocation exports a location with its gallery and annotations.
func (s *Service) SerializeLocation(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.location(ctx, id)
	})
}

// SerializeNote exports a note.
func (s *Service) SerializeNote(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.note(ctx, id)
	})
}

// SerializeLink exports a link.
func (s *Service) SerializeLink(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.link(ctx, id)
	})
}

// SerializeImage exports image metadata with its path reference.
func (s *Service) SerializeImage(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.image(ctx, id)
	})
}

// SerializeAuthor exports an author.
func (s *Service) SerializeAuthor(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.author(ctx, id)
	})
}

// SerializeBibliography exports a reference work with its authors.
func (s *Service) SerializeBibliography(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.bibliography(ctx, id)
	})
}

// SerializeSubmission exports a submission record.
func (s *Service) SerializeSubmission(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.serialize(ctx, func(ctx context.Context, w *walker) (any, error) {
		return w.submission(ctx, id)
	})
}

func (s *Service) serialize(ctx context.Context, build func(context.Context, *walker) (any, error)) ([]byte, error) {
	var out []byte
	err := s.provider.View(ctx, func(src Source) error {
		w := newWalker(src)
		doc, err := build(ctx, w)
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		out = encoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type visitKey struct {
	Type models.EntityType
	ID   uuid.UUID
}

// walker holds the visited set for one top-level serialization call.
// Revisits serialize as Ref stubs, which both breaks cycles and keeps
// shared entities from being duplicated.
type walker struct {
	src     Source
	visited map[visitKey]struct{}
}

func newWalker(src Source) *walker {
	return &walker{
		src:     src,
		visited: make(map[visitKey]struct{}),
	}
}

// visit marks the node and reports whether it was already seen.
func (w *walker) visit(t models.EntityType, id uuid.UUID) bool {
	key := visitKey{Type: t, ID: id}
	if _, ok := w.visited[key]; ok {
		return true
	}
	w.visited[key] = struct{}{}
	return false
}

func (w *walker) story(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityStory, id) {
		return Ref{Type: models.EntityStory, ID: id, Ref: true}, nil
	}
	story, err := w.src.Story(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := &StoryDocument{
		Type:        models.EntityStory,
		ID:          story.ID,
		Title:       story.Title,
		Description: story.Description,
	}

	if doc.Authors, err = w.related(ctx, models.EntityStory, id, models.EntityAuthor); err != nil {
		return nil, err
	}

	chapters, err := w.src.ChaptersByStory(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Chapters = make([]any, 0, len(chapters))
	for i := range chapters {
		child, err := w.chapterDoc(ctx, &chapters[i])
		if err != nil {
			return nil, err
		}
		doc.Chapters = append(doc.Chapters, child)
	}

	if doc.Characters, err = w.related(ctx, models.EntityStory, id, models.EntityCharacter); err != nil {
		return nil, err
	}
	if doc.Events, err = w.related(ctx, models.EntityStory, id, models.EntityEvent); err != nil {
		return nil, err
	}
	if doc.Locations, err = w.related(ctx, models.EntityStory, id, models.EntityLocation); err != nil {
		return nil, err
	}
	if doc.Notes, err = w.related(ctx, models.EntityStory, id, models.EntityNote); err != nil {
		return nil, err
	}
	if doc.Links, err = w.related(ctx, models.EntityStory, id, models.EntityLink); err != nil {
		return nil, err
	}

	bibs, err := w.src.BibliographiesByStory(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Bibliographies = make([]any, 0, len(bibs))
	for i := range bibs {
		child, err := w.bibliographyDoc(ctx, &bibs[i])
		if err != nil {
			return nil, err
		}
		doc.Bibliographies = append(doc.Bibliographies, child)
	}

	subs, err := w.src.SubmissionsByStory(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Submissions = make([]SubmissionDocument, 0, len(subs))
	for i := range subs {
		w.visit(models.EntitySubmission, subs[i].ID)
		doc.Submissions = append(doc.Submissions, submissionDoc(&subs[i]))
	}

	return doc, nil
}

func (w *walker) chapter(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityChapter, id) {
		return Ref{Type: models.EntityChapter, ID: id, Ref: true}, nil
	}
	chapter, err := w.src.Chapter(ctx, id)
	if err != nil {
		return nil, err
	}
	return w.buildChapter(ctx, chapter)
}

// chapterDoc is the already-loaded variant used while walking a story.
func (w *walker) chapterDoc(ctx context.Context, chapter *models.Chapter) (any, error) {
	if w.visit(models.EntityChapter, chapter.ID) {
		return Ref{Type: models.EntityChapter, ID: chapter.ID, Ref: true}, nil
	}
	return w.buildChapter(ctx, chapter)
}

func (w *walker) buildChapter(ctx context.Context, chapter *models.Chapter) (any, error) {
	doc := &ChapterDocument{
		Type:        models.EntityChapter,
		ID:          chapter.ID,
		Title:       chapter.Title,
		Description: chapter.Description,
		Position:    chapter.Position,
	}

	scenes, err := w.src.ScenesByChapter(ctx, chapter.ID)
	if err != nil {
		return nil, err
	}
	doc.Scenes = make([]any, 0, len(scenes))
	for i := range scenes {
		child, err := w.sceneDoc(ctx, &scenes[i])
		if err != nil {
			return nil, err
		}
		doc.Scenes = append(doc.Scenes, child)
	}

	if doc.Notes, err = w.related(ctx, models.EntityChapter, chapter.ID, models.EntityNote); err != nil {
		return nil, err
	}
	if doc.Links, err = w.related(ctx, models.EntityChapter, chapter.ID, models.EntityLink); err != nil {
		return nil, err
	}
	return doc, nil
}

func (w *walker) scene(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityScene, id) {
		return Ref{Type: models.EntityScene, ID: id, Ref: true}, nil
	}
	scene, err := w.src.Scene(ctx, id)
	if err != nil {
		return nil, err
	}
	return w.buildScene(ctx, scene)
}

func (w *walker) sceneDoc(ctx context.Context, scene *models.Scene) (any, error) {
	if w.visit(models.EntityScene, scene.ID) {
		return Ref{Type: models.EntityScene, ID: scene.ID, Ref: true}, nil
	}
	return w.buildScene(ctx, scene)
}

func (w *walker) buildScene(ctx context.Context, scene *models.Scene) (any, error) {
	doc := &SceneDocument{
		Type:        models.EntityScene,
		ID:          scene.ID,
		Title:       scene.Title,
		Description: scene.Description,
		Content:     scene.Content,
		Position:    scene.Position,
	}
	var err error
	if doc.Notes, err = w.related(ctx, models.EntityScene, scene.ID, models.EntityNote); err != nil {
		return nil, err
	}
	if doc.Links, err = w.related(ctx, models.EntityScene, scene.ID, models.EntityLink); err != nil {
		return nil, err
	}
	return doc, nil
}

func (w *walker) character(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityCharacter, id) {
		return Ref{Type: models.EntityCharacter, ID: id, Ref: true}, nil
	}
	character, err := w.src.Character(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := &CharacterDocument{
		Type:        models.EntityCharacter,
		ID:          character.ID,
		Honorific:   character.Honorific,
		FirstName:   character.FirstName,
		MiddleName:  character.MiddleName,
		LastName:    character.LastName,
		Description: character.Description,
	}

	traits, err := w.src.TraitsByCharacter(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Traits = make([]TraitDocument, 0, len(traits))
	for _, t := range traits {
		doc.Traits = append(doc.Traits, TraitDocument{
			ID:        t.ID,
			Name:      t.Name,
			Magnitude: t.Magnitude,
			Position:  t.Position,
		})
	}

	rels, err := w.src.RelationshipsByCharacter(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Relationships = make([]RelationshipDocument, 0, len(rels))
	for _, rel := range rels {
		related, err := w.character(ctx, rel.RelatedID)
		if err != nil {
			return nil, err
		}
		doc.Relationships = append(doc.Relationships, RelationshipDocument{
			ID:           rel.ID,
			RelationType: rel.Type,
			Description:  rel.Description,
			Position:     rel.Position,
			Related:      related,
		})
	}

	if doc.Events, err = w.related(ctx, models.EntityCharacter, id, models.EntityEvent); err != nil {
		return nil, err
	}
	if doc.Images, err = w.related(ctx, models.EntityCharacter, id, models.EntityImage); err != nil {
		return nil, err
	}
	if doc.Notes, err = w.related(ctx, models.EntityCharacter, id, models.EntityNote); err != nil {
		return nil, err
	}
	if doc.Links, err = w.related(ctx, models.EntityCharacter, id, models.EntityLink); err != nil {
		return nil, err
	}
	return doc, nil
}

func (w *walker) event(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityEvent, id) {
		return Ref{Type: models.EntityEvent, ID: id, Ref: true}, nil
	}
	event, err := w.src.Event(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := &EventDocument{
		Type:          models.EntityEvent,
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		StartDatetime: event.StartDatetime,
		EndDatetime:   event.EndDatetime,
	}
	if doc.Locations, err = w.related(ctx, models.EntityEvent, id, models.EntityLocation); err != nil {
		return nil, err
	}
	if doc.Notes, err = w.related(ctx, models.EntityEvent, id, models.EntityNote); err != nil {
		return nil, err
	}
	if doc.Links, err = w.related(ctx, models.EntityEvent, id, models.EntityLink); err != nil {
		return nil, err
	}
	return doc, nil
}

func (w *walker) location(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityLocation, id) {
		return Ref{Type: models.EntityLocation, ID: id, Ref: true}, nil
	}
	location, err := w.src.Location(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := &LocationDocument{
		Type:        models.EntityLocation,
		ID:          location.ID,
		Name:        location.Name,
		Description: location.Description,
	}
	if doc.Images, err = w.related(ctx, models.EntityLocation, id, models.EntityImage); err != nil {
		return nil, err
	}
	if doc.Notes, err = w.related(ctx, models.EntityLocation, id, models.EntityNote); err != nil {
		return nil, err
	}
	if doc.Links, err = w.related(ctx, models.EntityLocation, id, models.EntityLink); err != nil {
		return nil, err
	}
	return doc, nil
}

func (w *walker) note(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityNote, id) {
		return Ref{Type: models.EntityNote, ID: id, Ref: true}, nil
	}
	note, err := w.src.Note(ctx, id)
	if err != nil {
		return nil, err
	}
	return &NoteDocument{
		Type:    models.EntityNote,
		ID:      note.ID,
		Title:   note.Title,
		Content: note.Content,
	}, nil
}

func (w *walker) link(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityLink, id) {
		return Ref{Type: models.EntityLink, ID: id, Ref: true}, nil
	}
	link, err := w.src.Link(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LinkDocument{
		Type:  models.EntityLink,
		ID:    link.ID,
		Title: link.Title,
		URL:   link.URL,
	}, nil
}

func (w *walker) image(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityImage, id) {
		return Ref{Type: models.EntityImage, ID: id, Ref: true}, nil
	}
	image, err := w.src.Image(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ImageDocument{
		Type:      models.EntityImage,
		ID:        image.ID,
		Path:      image.Path(),
		SizeBytes: image.SizeBytes,
		MimeType:  image.MimeType,
		Caption:   image.Caption,
	}, nil
}

func (w *walker) author(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityAuthor, id) {
		return Ref{Type: models.EntityAuthor, ID: id, Ref: true}, nil
	}
	author, err := w.src.Author(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AuthorDocument{
		Type:        models.EntityAuthor,
		ID:          author.ID,
		Name:        author.Name,
		Initials:    author.Initials,
		IsPseudonym: author.IsPseudonym,
	}, nil
}

func (w *walker) bibliography(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntityBibliography, id) {
		return Ref{Type: models.EntityBibliography, ID: id, Ref: true}, nil
	}
	entry, err := w.src.Bibliography(ctx, id)
	if err != nil {
		return nil, err
	}
	return w.buildBibliography(ctx, entry)
}

func (w *walker) bibliographyDoc(ctx context.Context, entry *models.Bibliography) (any, error) {
	if w.visit(models.EntityBibliography, entry.ID) {
		return Ref{Type: models.EntityBibliography, ID: entry.ID, Ref: true}, nil
	}
	return w.buildBibliography(ctx, entry)
}

func (w *walker) buildBibliography(ctx context.Context, entry *models.Bibliography) (any, error) {
	doc := &BibliographyDocument{
		Type:            models.EntityBibliography,
		ID:              entry.ID,
		Title:           entry.Title,
		Pages:           entry.Pages,
		Publisher:       entry.Publisher,
		PublicationDate: entry.PublicationDate,
	}
	var err error
	if doc.Authors, err = w.related(ctx, models.EntityBibliography, entry.ID, models.EntityAuthor); err != nil {
		return nil, err
	}
	return doc, nil
}

func (w *walker) submission(ctx context.Context, id uuid.UUID) (any, error) {
	if w.visit(models.EntitySubmission, id) {
		return Ref{Type: models.EntitySubmission, ID: id, Ref: true}, nil
	}
	sub, err := w.src.Submission(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := submissionDoc(sub)
	return &doc, nil
}

func submissionDoc(sub *models.Submission) SubmissionDocument {
	return SubmissionDocument{
		Type:     models.EntitySubmission,
		ID:       sub.ID,
		Market:   sub.Market,
		DateSent: sub.DateSent,
		Result:   sub.Result,
		Amount:   sub.Amount,
	}
}

// related expands the attached entities of one kind, in attachment order.
func (w *walker) related(ctx context.Context, ownerType models.EntityType, ownerID uuid.UUID, relatedType models.EntityType) ([]any, error) {
	ids, err := w.src.RelatedIDs(ctx, ownerType, ownerID, relatedType)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		var doc any
		switch relatedType {
		case models.EntityAuthor:
			doc, err = w.author(ctx, id)
		case models.EntityCharacter:
			doc, err = w.character(ctx, id)
		case models.EntityEvent:
			doc, err = w.event(ctx, id)
		case models.EntityLocation:
			doc, err = w.location(ctx, id)
		case models.EntityNote:
			doc, err = w.note(ctx, id)
		case models.EntityLink:
			doc, err = w.link(ctx, id)
		case models.EntityImage:
			doc, err = w.image(ctx, id)
		default:
			return nil, fmt.Errorf("cannot expand related type %q: %w", relatedType, models.ErrValidation)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}
