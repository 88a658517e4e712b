package api

import (
	"net/http"

	"gnatwriter/internal/assistant"
	"gnatwriter/internal/serializer"
	"gnatwriter/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles every controller the HTTP layer exposes.
type Services struct {
	Stories        *service.StoryService
	Chapters       *service.ChapterService
	Scenes         *service.SceneService
	Characters     *service.CharacterService
	Events         *service.EventService
	Locations      *service.LocationService
	Notes          *service.NoteService
	Links          *service.LinkService
	Images         *service.ImageService
	Authors        *service.AuthorService
	Bibliographies *service.BibliographyService
	Submissions    *service.SubmissionService
	Users          *service.UserService
	Activities     *service.ActivityService
	Relations      *service.RelationService
	Serializer     *serializer.Service
	Assistant      *assistant.Service
}

// Handler owns the route table.
type Handler struct {
	svc    Services
	logger *zap.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(svc Services, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.Named("API")}
}

// RegisterRoutes mounts every endpoint under /api.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Account endpoints sit outside RequireUser: registration and login
	// bootstrap the header the rest of the API expects.
	api.POST("/users", h.register)
	api.POST("/login", h.login)

	v := api.Group("")
	v.Use(RequireUser())

	v.GET("/users/me", h.getMe)
	v.PUT("/users/me", h.updateProfile)
	v.PUT("/users/me/password", h.changePassword)

	v.POST("/stories", h.createStory)
	v.GET("/stories", h.listStories)
	v.GET("/stories/search", h.searchStories)
	v.GET("/stories/:id", h.getStory)
	v.PUT("/stories/:id", h.updateStory)
	v.DELETE("/stories/:id", h.deleteStory)
	v.GET("/stories/:id/snapshot", h.storySnapshot)
	v.GET("/stories/:id/chapters", h.listChapters)
	v.GET("/stories/:id/bibliographies", h.listBibliographies)
	v.GET("/stories/:id/submissions", h.listSubmissions)

	v.POST("/chapters", h.createChapter)
	v.GET("/chapters/:id", h.getChapter)
	v.PUT("/chapters/:id", h.updateChapter)
	v.PUT("/chapters/:id/move", h.moveChapter)
	v.DELETE("/chapters/:id", h.deleteChapter)
	v.GET("/chapters/:id/scenes", h.listScenes)

	v.POST("/scenes", h.createScene)
	v.GET("/scenes/search", h.searchScenes)
	v.GET("/scenes/:id", h.getScene)
	v.PUT("/scenes/:id", h.updateScene)
	v.PUT("/scenes/:id/move", h.moveScene)
	v.DELETE("/scenes/:id", h.deleteScene)

	v.POST("/characters", h.createCharacter)
	v.GET("/characters", h.listCharacters)
	v.GET("/characters/search", h.searchCharacters)
	v.GET("/characters/:id", h.getCharacter)
	v.PUT("/characters/:id", h.updateCharacter)
	v.DELETE("/characters/:id", h.deleteCharacter)
	v.GET("/characters/:id/traits", h.listTraits)
	v.POST("/characters/:id/traits", h.addTrait)
	v.PUT("/traits/:id", h.updateTrait)
	v.PUT("/traits/:id/move", h.moveTrait)
	v.DELETE("/traits/:id", h.deleteTrait)
	v.GET("/characters/:id/relationships", h.listRelationships)
	v.POST("/characters/:id/relationships", h.addRelationship)
	v.PUT("/relationships/:id", h.updateRelationship)
	v.PUT("/relationships/:id/move", h.moveRelationship)
	v.DELETE("/relationships/:id", h.deleteRelationship)

	v.POST("/events", h.createEvent)
	v.GET("/events", h.listEvents)
	v.GET("/events/:id", h.getEvent)
	v.PUT("/events/:id", h.updateEvent)
	v.DELETE("/events/:id", h.deleteEvent)

	v.POST("/locations", h.createLocation)
	v.GET("/locations", h.listLocations)
	v.GET("/locations/:id", h.getLocation)
	v.PUT("/locations/:id", h.updateLocation)
	v.DELETE("/locations/:id", h.deleteLocation)

	v.POST("/notes", h.createNote)
	v.GET("/notes", h.listNotes)
	v.GET("/notes/search", h.searchNotes)
	v.GET("/notes/:id", h.getNote)
	v.PUT("/notes/:id", h.updateNote)
	v.DELETE("/notes/:id", h.deleteNote)

	v.POST("/links", h.createLink)
	v.GET("/links", h.listLinks)
	v.GET("/links/:id", h.getLink)
	v.PUT("/links/:id", h.updateLink)
	v.DELETE("/links/:id", h.deleteLink)

	v.POST("/images", h.createImage)
	v.GET("/images", h.listImages)
	v.GET("/images/:id", h.getImage)
	v.PUT("/images/:id", h.updateImage)
	v.DELETE("/images/:id", h.deleteImage)

	v.POST("/authors", h.createAuthor)
	v.GET("/authors", h.listAuthors)
	v.GET("/authors/:id", h.getAuthor)
	v.PUT("/authors/:id", h.updateAuthor)
	v.DELETE("/authors/:id", h.deleteAuthor)

	v.POST("/bibliographies", h.createBibliography)
	v.GET("/bibliographies/:id", h.getBibliography)
	v.PUT("/bibliographies/:id", h.updateBibliography)
	v.DELETE("/bibliographies/:id", h.deleteBibliography)

	v.POST("/submissions", h.createSubmission)
	v.GET("/submissions/:id", h.getSubmission)
	v.PUT("/submissions/:id", h.updateSubmission)
	v.DELETE("/submissions/:id", h.deleteSubmission)

	v.POST("/relations", h.attach)
	v.DELETE("/relations", h.detach)
	v.GET("/relations", h.related)

	v.GET("/snapshots/:type/:id", h.entitySnapshot)

	v.GET("/activities", h.listActivities)
	v.GET("/activities/:type/:id", h.listEntityActivities)

	v.POST("/assistant/chat", h.assistantChat)
	v.POST("/assistant/generate", h.assistantGenerate)
	v.POST("/assistant/describe-image", h.assistantDescribeImage)
}

func writeJSONDocument(c *gin.Context, doc []byte) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}
