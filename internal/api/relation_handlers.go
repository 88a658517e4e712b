package api

import (
	"context"
	"net/http"

	"gnatwriter/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type relationRequest struct {
	OwnerType   string    `json:"ownerType" binding:"required"`
	OwnerID     uuid.UUID `json:"ownerId" binding:"required"`
	RelatedType string    `json:"relatedType" binding:"required"`
	RelatedID   uuid.UUID `json:"relatedId" binding:"required"`
}

func (r relationRequest) parse() (models.EntityType, models.EntityType, error) {
	ownerType, err := models.ParseEntityType(r.OwnerType)
	if err != nil {
		return "", "", err
	}
	relatedType, err := models.ParseEntityType(r.RelatedType)
	if err != nil {
		return "", "", err
	}
	return ownerType, relatedType, nil
}

func (h *Handler) attach(c *gin.Context) {
	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	ownerType, relatedType, err := req.parse()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if err := h.svc.Relations.Attach(c.Request.Context(), currentUser(c), ownerType, req.OwnerID, relatedType, req.RelatedID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) detach(c *gin.Context) {
	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	ownerType, relatedType, err := req.parse()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if err := h.svc.Relations.Detach(c.Request.Context(), currentUser(c), ownerType, req.OwnerID, relatedType, req.RelatedID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) related(c *gin.Context) {
	ownerType, err := models.ParseEntityType(c.Query("ownerType"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	ownerID, err := uuid.Parse(c.Query("ownerId"))
	if err != nil {
		badRequest(c, "ownerId is not a valid UUID")
		return
	}
	relatedType, err := models.ParseEntityType(c.Query("relatedType"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	ids, err := h.svc.Relations.Related(c.Request.Context(), ownerType, ownerID, relatedType)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// entitySnapshot serializes any aggregate by its type tag. Story snapshots
// have a dedicated route that goes through the cache.
func (h *Handler) entitySnapshot(c *gin.Context) {
	entityType, err := models.ParseEntityType(c.Param("type"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var doc []byte
	switch entityType {
	case models.EntityStory:
		doc, err = h.svc.Serializer.SerializeStory(ctx, id)
	case models.EntityChapter:
		doc, err = h.svc.Serializer.SerializeChapter(ctx, id)
	case models.EntityScene:
		doc, err = h.svc.Serializer.SerializeScene(ctx, id)
	case models.EntityCharacter:
		doc, err = h.svc.Serializer.SerializeCharacter(ctx, id)
	case models.EntityEvent:
		doc, err = h.svc.Serializer.SerializeEvent(ctx, id)
	case models.EntityLocation:
		doc, err = h.svc.Serializer.SerializeLocation(ctx, id)
	case models.EntityNote:
		doc, err = h.svc.Serializer.SerializeNote(ctx, id)
	case models.EntityLink:
		doc, err = h.svc.Serializer.SerializeLink(ctx, id)
	case models.EntityImage:
		doc, err = h.svc.Serializer.SerializeImage(ctx, id)
	case models.EntityAuthor:
		doc, err = h.svc.Serializer.SerializeAuthor(ctx, id)
	case models.EntityBibliography:
		doc, err = h.svc.Serializer.SerializeBibliography(ctx, id)
	case models.EntitySubmission:
		doc, err = h.svc.Serializer.SerializeSubmission(ctx, id)
	default:
		badRequest(c, "no snapshot form for entity type "+string(entityType))
		return
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}
	writeJSONDocument(c, doc)
}

type assistantRequest struct {
	SessionID uuid.UUID `json:"sessionId"`
	SceneID   uuid.UUID `json:"sceneId"`
	Message   string    `json:"message" binding:"required"`
}

type assistantResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
	Response  string    `json:"response"`
}

func (h *Handler) assistantChat(c *gin.Context) {
	h.assistantText(c, h.svc.Assistant.Chat)
}

func (h *Handler) assistantGenerate(c *gin.Context) {
	h.assistantText(c, h.svc.Assistant.Generate)
}

func (h *Handler) assistantText(c *gin.Context, dispatch func(ctx context.Context, userID, sessionID, sceneID uuid.UUID, message string) (string, error)) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.SessionID == uuid.Nil {
		req.SessionID = uuid.New()
	}
	response, err := dispatch(c.Request.Context(), currentUser(c), req.SessionID, req.SceneID, req.Message)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assistantResponse{SessionID: req.SessionID, Response: response})
}

type describeImageRequest struct {
	SessionID uuid.UUID `json:"sessionId"`
	ImageID   uuid.UUID `json:"imageId" binding:"required"`
	Message   string    `json:"message" binding:"required"`
}

func (h *Handler) assistantDescribeImage(c *gin.Context) {
	var req describeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.SessionID == uuid.Nil {
		req.SessionID = uuid.New()
	}
	response, err := h.svc.Assistant.DescribeImage(c.Request.Context(), currentUser(c), req.SessionID, req.ImageID, req.Message)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assistantResponse{SessionID: req.SessionID, Response: response})
}
