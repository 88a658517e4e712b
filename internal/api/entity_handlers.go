package api

import (
	"net/http"

	"gnatwriter/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type characterRequest struct {
	Honorific   string `json:"honorific"`
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName"`
	Description string `json:"description"`
}

func (h *Handler) createCharacter(c *gin.Context) {
	var req characterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	character, err := h.svc.Characters.Create(c.Request.Context(), currentUser(c), models.Character{
		Honorific:   req.Honorific,
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, character)
}

func (h *Handler) getCharacter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	character, err := h.svc.Characters.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, character)
}

func (h *Handler) updateCharacter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req characterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	character, err := h.svc.Characters.Update(c.Request.Context(), currentUser(c), models.Character{
		ID:          id,
		Honorific:   req.Honorific,
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, character)
}

func (h *Handler) deleteCharacter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Characters.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listCharacters(c *gin.Context) {
	limit, offset := pageParams(c)
	characters, err := h.svc.Characters.List(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, characters)
}

func (h *Handler) searchCharacters(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		badRequest(c, "q query parameter is required")
		return
	}
	characters, err := h.svc.Characters.Search(c.Request.Context(), currentUser(c), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, characters)
}

type traitCreateRequest struct {
	Name      string `json:"name" binding:"required"`
	Magnitude int    `json:"magnitude"`
	Position  int    `json:"position"`
}

type traitUpdateRequest struct {
	Name      string `json:"name" binding:"required"`
	Magnitude int    `json:"magnitude"`
}

func (h *Handler) addTrait(c *gin.Context) {
	characterID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req traitCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	trait, err := h.svc.Characters.AddTrait(c.Request.Context(), currentUser(c), characterID, req.Name, req.Magnitude, req.Position)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trait)
}

func (h *Handler) updateTrait(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req traitUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	trait, err := h.svc.Characters.UpdateTrait(c.Request.Context(), currentUser(c), id, req.Name, req.Magnitude)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, trait)
}

func (h *Handler) moveTrait(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := h.svc.Characters.MoveTrait(c.Request.Context(), currentUser(c), id, req.Position); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteTrait(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Characters.DeleteTrait(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listTraits(c *gin.Context) {
	characterID, ok := parseID(c, "id")
	if !ok {
		return
	}
	traits, err := h.svc.Characters.Traits(c.Request.Context(), characterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, traits)
}

type relationshipCreateRequest struct {
	RelatedID   uuid.UUID `json:"relatedId" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
}

type relationshipUpdateRequest struct {
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) addRelationship(c *gin.Context) {
	parentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req relationshipCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	relType, err := models.ParseRelationshipType(req.Type)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	rel, err := h.svc.Characters.AddRelationship(c.Request.Context(), currentUser(c), parentID, req.RelatedID, relType, req.Description, req.Position)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (h *Handler) updateRelationship(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req relationshipUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	relType, err := models.ParseRelationshipType(req.Type)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	rel, err := h.svc.Characters.UpdateRelationship(c.Request.Context(), currentUser(c), id, relType, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

func (h *Handler) moveRelationship(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := h.svc.Characters.MoveRelationship(c.Request.Context(), currentUser(c), id, req.Position); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteRelationship(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Characters.DeleteRelationship(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listRelationships(c *gin.Context) {
	characterID, ok := parseID(c, "id")
	if !ok {
		return
	}
	rels, err := h.svc.Characters.Relationships(c.Request.Context(), characterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rels)
}

type eventRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	StartDatetime string `json:"startDatetime"`
	EndDatetime   string `json:"endDatetime"`
}

func (h *Handler) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	event, err := h.svc.Events.Create(c.Request.Context(), currentUser(c), models.Event{
		Title:         req.Title,
		Description:   req.Description,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *Handler) getEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	event, err := h.svc.Events.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) updateEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	event, err := h.svc.Events.Update(c.Request.Context(), currentUser(c), models.Event{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) deleteEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Events.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listEvents(c *gin.Context) {
	limit, offset := pageParams(c)
	events, err := h.svc.Events.List(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

type locationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) createLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	location, err := h.svc.Locations.Create(c.Request.Context(), currentUser(c), models.Location{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *Handler) getLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	location, err := h.svc.Locations.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *Handler) updateLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	location, err := h.svc.Locations.Update(c.Request.Context(), currentUser(c), models.Location{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *Handler) deleteLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Locations.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listLocations(c *gin.Context) {
	limit, offset := pageParams(c)
	locations, err := h.svc.Locations.List(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

type noteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (h *Handler) createNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	note, err := h.svc.Notes.Create(c.Request.Context(), currentUser(c), req.Title, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *Handler) getNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	note, err := h.svc.Notes.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *Handler) updateNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	note, err := h.svc.Notes.Update(c.Request.Context(), currentUser(c), id, req.Title, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *Handler) deleteNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Notes.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listNotes(c *gin.Context) {
	limit, offset := pageParams(c)
	notes, err := h.svc.Notes.List(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *Handler) searchNotes(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		badRequest(c, "q query parameter is required")
		return
	}
	notes, err := h.svc.Notes.Search(c.Request.Context(), currentUser(c), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

type linkRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required"`
}

func (h *Handler) createLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	link, err := h.svc.Links.Create(c.Request.Context(), currentUser(c), req.Title, req.URL)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *Handler) getLink(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	link, err := h.svc.Links.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *Handler) updateLink(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	link, err := h.svc.Links.Update(c.Request.Context(), currentUser(c), id, req.Title, req.URL)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *Handler) deleteLink(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Links.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listLinks(c *gin.Context) {
	limit, offset := pageParams(c)
	links, err := h.svc.Links.List(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

type imageRequest struct {
	Filename  string `json:"filename" binding:"required"`
	Dirname   string `json:"dirname"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType" binding:"required"`
	Caption   string `json:"caption"`
}

func (h *Handler) createImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	mime, err := models.ParseImageMimeType(req.MimeType)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	image, err := h.svc.Images.Create(c.Request.Context(), currentUser(c), models.Image{
		Filename:  req.Filename,
		Dirname:   req.Dirname,
		SizeBytes: req.SizeBytes,
		MimeType:  mime,
		Caption:   req.Caption,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

func (h *Handler) getImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	image, err := h.svc.Images.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

func (h *Handler) updateImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	mime, err := models.ParseImageMimeType(req.MimeType)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	image, err := h.svc.Images.Update(c.Request.Context(), currentUser(c), models.Image{
		ID:        id,
		Filename:  req.Filename,
		Dirname:   req.Dirname,
		SizeBytes: req.SizeBytes,
		MimeType:  mime,
		Caption:   req.Caption,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

func (h *Handler) deleteImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Images.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listImages(c *gin.Context) {
	limit, offset := pageParams(c)
	images, err := h.svc.Images.List(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

type authorRequest struct {
	Name        string `json:"name" binding:"required"`
	Initials    string `json:"initials"`
	IsPseudonym bool   `json:"isPseudonym"`
}

func (h *Handler) createAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	author, err := h.svc.Authors.Create(c.Request.Context(), currentUser(c), req.Name, req.Initials, req.IsPseudonym)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h *Handler) getAuthor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	author, err := h.svc.Authors.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h *Handler) updateAuthor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	author, err := h.svc.Authors.Update(c.Request.Context(), currentUser(c), models.Author{
		ID:          id,
		Name:        req.Name,
		Initials:    req.Initials,
		IsPseudonym: req.IsPseudonym,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h *Handler) deleteAuthor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Authors.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listAuthors(c *gin.Context) {
	limit, offset := pageParams(c)
	authors, err := h.svc.Authors.List(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}
