package assistant

import (
	"context"
	"fmt"
	"os"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"
	"gnatwriter/internal/serializer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	chatInstruction = "You are a writing assistant embedded in a fiction management tool. " +
		"Answer the writer's question using the provided story context. Be concise and concrete."
	generativeInstruction = "You are a prose generator embedded in a fiction management tool. " +
		"Continue or rewrite the requested material in the style of the provided story context."
	multimodalInstruction = "You are an image analyst embedded in a fiction management tool. " +
		"Describe the attached image for the writer's records."
)

// Service is the high-level assistant facade: it gathers story context and
// session history, assembles a bounded prompt and dispatches it.
type Service struct {
	cfg        *Config
	manager    *ContextManager
	dispatcher *Dispatcher
	serializer *serializer.Service
	scenes     interfaces.SceneRepository
	chapters   interfaces.ChapterRepository
	relations  interfaces.RelationRepository
	images     interfaces.ImageRepository
	activities interfaces.ActivityRepository
	logger     *zap.Logger
}

// NewService wires the assistant facade.
func NewService(
	cfg *Config,
	manager *ContextManager,
	dispatcher *Dispatcher,
	ser *serializer.Service,
	scenes interfaces.SceneRepository,
	chapters interfaces.ChapterRepository,
	relations interfaces.RelationRepository,
	images interfaces.ImageRepository,
	activities interfaces.ActivityRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		cfg:        cfg,
		manager:    manager,
		dispatcher: dispatcher,
		serializer: ser,
		scenes:     scenes,
		chapters:   chapters,
		relations:  relations,
		images:     images,
		activities: activities,
		logger:     logger.Named("Assistant"),
	}
}

// Chat answers a writer's question about a scene. sceneID may be Nil for a
// free-standing question.
func (s *Service) Chat(ctx context.Context, userID, sessionID, sceneID uuid.UUID, message string) (string, error) {
	return s.textDispatch(ctx, RoleChat, chatInstruction, userID, sessionID, sceneID, message)
}

// Generate produces prose grounded in a scene's context.
func (s *Service) Generate(ctx context.Context, userID, sessionID, sceneID uuid.UUID, message string) (string, error) {
	return s.textDispatch(ctx, RoleGenerative, generativeInstruction, userID, sessionID, sceneID, message)
}

func (s *Service) textDispatch(ctx context.Context, role Role, instruction string, userID, sessionID, sceneID uuid.UUID, message string) (string, error) {
	rc, err := s.cfg.ForRole(role)
	if err != nil {
		return "", err
	}
	if message == "" {
		return "", fmt.Errorf("a message is required: %w", models.ErrValidation)
	}

	history, err := s.sessionHistory(ctx, sessionID, rc.MemoryDuration)
	if err != nil {
		return "", err
	}
	blocks, err := s.storyContext(ctx, sceneID)
	if err != nil {
		return "", err
	}

	prompt, err := s.manager.Assemble(rc, instruction, Block{Label: "request", Text: message}, history, blocks)
	if err != nil {
		return "", err
	}
	return s.dispatcher.Dispatch(ctx, DispatchRequest{
		UserID:      userID,
		SessionID:   sessionID,
		Role:        role,
		Prompt:      prompt,
		UserMessage: message,
		EntityType:  models.EntityScene,
		EntityID:    sceneID,
	})
}

// DescribeImage sends an image to the multimodal role. The payload is read
// from the image's on-disk path; the prompt itself carries only the
// reference, charged at the fixed per-image cost.
func (s *Service) DescribeImage(ctx context.Context, userID, sessionID, imageID uuid.UUID, message string) (string, error) {
	rc, err := s.cfg.ForRole(RoleMultimodal)
	if err != nil {
		return "", err
	}
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return "", err
	}
	payload, err := os.ReadFile(image.Path())
	if err != nil {
		return "", fmt.Errorf("failed to read image payload %s: %w", image.Path(), err)
	}

	if message == "" {
		message = "Describe this image."
	}
	history, err := s.sessionHistory(ctx, sessionID, rc.MemoryDuration)
	if err != nil {
		return "", err
	}

	target := Block{Label: "request", Text: message, Images: 1}
	prompt, err := s.manager.Assemble(rc, multimodalInstruction, target, history, nil)
	if err != nil {
		return "", err
	}
	return s.dispatcher.Dispatch(ctx, DispatchRequest{
		UserID:      userID,
		SessionID:   sessionID,
		Role:        RoleMultimodal,
		Prompt:      prompt,
		UserMessage: message,
		EntityType:  models.EntityImage,
		EntityID:    imageID,
		Images:      [][]byte{payload},
	})
}

func (s *Service) sessionHistory(ctx context.Context, sessionID uuid.UUID, memoryDuration int) ([]Turn, error) {
	if sessionID == uuid.Nil || memoryDuration == 0 {
		return nil, nil
	}
	activities, err := s.activities.ListBySession(ctx, sessionID, memoryDuration)
	if err != nil {
		return nil, err
	}
	return DecodeTurns(activities), nil
}

// storyContext gathers serialized blocks in relevance order: the scene,
// its chapter, the story, then the story's characters, locations and
// events.
func (s *Service) storyContext(ctx context.Context, sceneID uuid.UUID) ([]Block, error) {
	if sceneID == uuid.Nil {
		return nil, nil
	}
	scene, err := s.scenes.GetByID(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	chapter, err := s.chapters.GetByID(ctx, scene.ChapterID)
	if err != nil {
		return nil, err
	}

	blocks := make([]Block, 0, 8)
	appendDoc := func(label string, doc []byte, err error) error {
		if err != nil {
			return err
		}
		blocks = append(blocks, Block{Label: label, Text: string(doc)})
		return nil
	}

	doc, err := s.serializer.SerializeScene(ctx, sceneID)
	if err := appendDoc("scene", doc, err); err != nil {
		return nil, err
	}
	doc, err = s.serializer.SerializeChapter(ctx, scene.ChapterID)
	if err := appendDoc("chapter", doc, err); err != nil {
		return nil, err
	}
	doc, err = s.serializer.SerializeStory(ctx, chapter.StoryID)
	if err := appendDoc("story", doc, err); err != nil {
		return nil, err
	}

	for _, relatedType := range []models.EntityType{models.EntityCharacter, models.EntityLocation, models.EntityEvent} {
		ids, err := s.relations.RelatedIDs(ctx, models.EntityStory, chapter.StoryID, relatedType)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			var doc []byte
			var err error
			switch relatedType {
			case models.EntityCharacter:
				doc, err = s.serializer.SerializeCharacter(ctx, id)
			case models.EntityLocation:
				doc, err = s.serializer.SerializeLocation(ctx, id)
			case models.EntityEvent:
				doc, err = s.serializer.SerializeEvent(ctx, id)
			}
			if err := appendDoc(string(relatedType), doc, err); err != nil {
				return nil, err
			}
		}
	}
	return blocks, nil
}
