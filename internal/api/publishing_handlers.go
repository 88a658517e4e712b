package api

import (
	"net/http"

	"gnatwriter/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type bibliographyCreateRequest struct {
	StoryID         uuid.UUID `json:"storyId" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	Pages           string    `json:"pages"`
	Publisher       string    `json:"publisher"`
	PublicationDate string    `json:"publicationDate"`
}

type bibliographyUpdateRequest struct {
	Title           string `json:"title" binding:"required"`
	Pages           string `json:"pages"`
	Publisher       string `json:"publisher"`
	PublicationDate string `json:"publicationDate"`
}

func (h *Handler) createBibliography(c *gin.Context) {
	var req bibliographyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	entry, err := h.svc.Bibliographies.Create(c.Request.Context(), currentUser(c), models.Bibliography{
		StoryID:         req.StoryID,
		Title:           req.Title,
		Pages:           req.Pages,
		Publisher:       req.Publisher,
		PublicationDate: req.PublicationDate,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) getBibliography(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.svc.Bibliographies.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) updateBibliography(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req bibliographyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	entry, err := h.svc.Bibliographies.Update(c.Request.Context(), currentUser(c), models.Bibliography{
		ID:              id,
		Title:           req.Title,
		Pages:           req.Pages,
		Publisher:       req.Publisher,
		PublicationDate: req.PublicationDate,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) deleteBibliography(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Bibliographies.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listBibliographies(c *gin.Context) {
	storyID, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.svc.Bibliographies.ListByStory(c.Request.Context(), storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type submissionCreateRequest struct {
	StoryID  uuid.UUID `json:"storyId" binding:"required"`
	Market   string    `json:"market" binding:"required"`
	DateSent string    `json:"dateSent"`
	Result   string    `json:"result"`
	Amount   float64   `json:"amount"`
}

type submissionUpdateRequest struct {
	Market   string  `json:"market" binding:"required"`
	DateSent string  `json:"dateSent"`
	Result   string  `json:"result" binding:"required"`
	Amount   float64 `json:"amount"`
}

func (h *Handler) createSubmission(c *gin.Context) {
	var req submissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	submission, err := h.svc.Submissions.Create(c.Request.Context(), currentUser(c), models.Submission{
		StoryID:  req.StoryID,
		Market:   req.Market,
		DateSent: req.DateSent,
		Result:   models.SubmissionResult(req.Result),
		Amount:   req.Amount,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

func (h *Handler) getSubmission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	submission, err := h.svc.Submissions.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (h *Handler) updateSubmission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req submissionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	result, err := models.ParseSubmissionResult(req.Result)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	submission, err := h.svc.Submissions.Update(c.Request.Context(), currentUser(c), models.Submission{
		ID:       id,
		Market:   req.Market,
		DateSent: req.DateSent,
		Result:   result,
		Amount:   req.Amount,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (h *Handler) deleteSubmission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Submissions.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listSubmissions(c *gin.Context) {
	storyID, ok := parseID(c, "id")
	if !ok {
		return
	}
	submissions, err := h.svc.Submissions.ListByStory(c.Request.Context(), storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissions)
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	user, err := h.svc.Users.Register(c.Request.Context(), req.Username, req.DisplayName, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	user, err := h.svc.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
			Code:    errCodeUnauthorized,
			Message: "Invalid username or password",
		})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) getMe(c *gin.Context) {
	user, err := h.svc.Users.GetByID(c.Request.Context(), currentUser(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type profileRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	user, err := h.svc.Users.UpdateProfile(c.Request.Context(), currentUser(c), req.DisplayName, req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type passwordRequest struct {
	Current string `json:"current" binding:"required"`
	Next    string `json:"next" binding:"required"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := h.svc.Users.ChangePassword(c.Request.Context(), currentUser(c), req.Current, req.Next); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listActivities(c *gin.Context) {
	limit, offset := pageParams(c)
	activities, err := h.svc.Activities.ListByUser(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (h *Handler) listEntityActivities(c *gin.Context) {
	entityType, err := models.ParseEntityType(c.Param("type"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, _ := pageParams(c)
	activities, err := h.svc.Activities.ListByEntity(c.Request.Context(), entityType, id, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}
