package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, name+" is not a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

type storyRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) createStory(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	story, err := h.svc.Stories.Create(c.Request.Context(), currentUser(c), req.Title, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (h *Handler) getStory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	story, err := h.svc.Stories.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *Handler) updateStory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	story, err := h.svc.Stories.Update(c.Request.Context(), currentUser(c), id, req.Title, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *Handler) deleteStory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cascade := c.Query("cascade") == "true"
	if err := h.svc.Stories.Delete(c.Request.Context(), currentUser(c), id, cascade); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listStories(c *gin.Context) {
	limit, offset := pageParams(c)
	stories, err := h.svc.Stories.List(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (h *Handler) searchStories(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		badRequest(c, "q query parameter is required")
		return
	}
	stories, err := h.svc.Stories.Search(c.Request.Context(), currentUser(c), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (h *Handler) storySnapshot(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	doc, err := h.svc.Serializer.SerializeStory(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	writeJSONDocument(c, doc)
}

type chapterCreateRequest struct {
	StoryID     uuid.UUID `json:"storyId" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
}

type chapterUpdateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type moveRequest struct {
	Position int `json:"position" binding:"required"`
}

func (h *Handler) createChapter(c *gin.Context) {
	var req chapterCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	chapter, err := h.svc.Chapters.Create(c.Request.Context(), currentUser(c), req.StoryID, req.Title, req.Description, req.Position)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

func (h *Handler) getChapter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	chapter, err := h.svc.Chapters.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *Handler) updateChapter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req chapterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	chapter, err := h.svc.Chapters.Update(c.Request.Context(), currentUser(c), id, req.Title, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *Handler) moveChapter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := h.svc.Chapters.Move(c.Request.Context(), currentUser(c), id, req.Position); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteChapter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cascade := c.Query("cascade") == "true"
	if err := h.svc.Chapters.Delete(c.Request.Context(), currentUser(c), id, cascade); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listChapters(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	chapters, err := h.svc.Chapters.ListByStory(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

type sceneCreateRequest struct {
	ChapterID   uuid.UUID `json:"chapterId" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Position    int       `json:"position"`
}

type sceneUpdateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

func (h *Handler) createScene(c *gin.Context) {
	var req sceneCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	scene, err := h.svc.Scenes.Create(c.Request.Context(), currentUser(c), req.ChapterID, req.Title, req.Description, req.Content, req.Position)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, scene)
}

func (h *Handler) getScene(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	scene, err := h.svc.Scenes.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

func (h *Handler) updateScene(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req sceneUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	scene, err := h.svc.Scenes.Update(c.Request.Context(), currentUser(c), id, req.Title, req.Description, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

func (h *Handler) moveScene(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := h.svc.Scenes.Move(c.Request.Context(), currentUser(c), id, req.Position); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteScene(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Scenes.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listScenes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	scenes, err := h.svc.Scenes.ListByChapter(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenes)
}

func (h *Handler) searchScenes(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		badRequest(c, "q query parameter is required")
		return
	}
	scenes, err := h.svc.Scenes.Search(c.Request.Context(), currentUser(c), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenes)
}
