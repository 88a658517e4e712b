package service

import (
	"context"
	"fmt"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// EventService manages world events.
type EventService struct {
	base
}

// NewEventService creates the event controller.
func NewEventService(deps Deps) *EventService {
	return &EventService{base: newBase(deps, "EventService")}
}

func (s *EventService) Create(ctx context.Context, userID uuid.UUID, event models.Event) (*models.Event, error) {
	event.ID = uuid.Nil
	event.UserID = userID
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Events.Create(ctx, &event); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityEvent, event.ID, models.OpCreate,
		fmt.Sprintf("Created event %q", event.Title))
	return &event, nil
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.deps.Events.GetByID(ctx, id)
}

func (s *EventService) Update(ctx context.Context, userID uuid.UUID, updated models.Event) (*models.Event, error) {
	event, err := s.deps.Events.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	event.Title = updated.Title
	event.Description = updated.Description
	event.StartDatetime = updated.StartDatetime
	event.EndDatetime = updated.EndDatetime
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Events.Update(ctx, event); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityEvent, event.ID, models.OpUpdate,
		fmt.Sprintf("Updated event %q", event.Title))
	s.invalidateOwners(ctx, models.EntityEvent, event.ID)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.invalidateOwners(ctx, models.EntityEvent, id)
	if err := s.deps.Events.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityEvent, id, models.OpDelete, "Deleted event")
	return nil
}

func (s *EventService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Events.ListByUser(ctx, userID, limit, offset)
}

// LocationService manages places.
type LocationService struct {
	base
}

// NewLocationService creates the location controller.
func NewLocationService(deps Deps) *LocationService {
	return &LocationService{base: newBase(deps, "LocationService")}
}

func (s *LocationService) Create(ctx context.Context, userID uuid.UUID, location models.Location) (*models.Location, error) {
	location.ID = uuid.Nil
	location.UserID = userID
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Locations.Create(ctx, &location); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityLocation, location.ID, models.OpCreate,
		fmt.Sprintf("Created location %q", location.Name))
	return &location, nil
}

func (s *LocationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	return s.deps.Locations.GetByID(ctx, id)
}

func (s *LocationService) Update(ctx context.Context, userID uuid.UUID, updated models.Location) (*models.Location, error) {
	location, err := s.deps.Locations.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	location.Name = updated.Name
	location.Description = updated.Description
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Locations.Update(ctx, location); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityLocation, location.ID, models.OpUpdate,
		fmt.Sprintf("Updated location %q", location.Name))
	s.invalidateOwners(ctx, models.EntityLocation, location.ID)
	return location, nil
}

func (s *LocationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.invalidateOwners(ctx, models.EntityLocation, id)
	if err := s.deps.Locations.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityLocation, id, models.OpDelete, "Deleted location")
	return nil
}

func (s *LocationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Location, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Locations.ListByUser(ctx, userID, limit, offset)
}

// NoteService manages free-text annotations.
type NoteService struct {
	base
}

// NewNoteService creates the note controller.
func NewNoteService(deps Deps) *NoteService {
	return &NoteService{base: newBase(deps, "NoteService")}
}

func (s *NoteService) Create(ctx context.Context, userID uuid.UUID, title, content string) (*models.Note, error) {
	note := &models.Note{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := note.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Notes.Create(ctx, note); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityNote, note.ID, models.OpCreate,
		fmt.Sprintf("Created note %q", note.Title))
	return note, nil
}

func (s *NoteService) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	return s.deps.Notes.GetByID(ctx, id)
}

func (s *NoteService) Update(ctx context.Context, userID, id uuid.UUID, title, content string) (*models.Note, error) {
	note, err := s.deps.Notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	note.Title = title
	note.Content = content
	if err := note.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Notes.Update(ctx, note); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityNote, note.ID, models.OpUpdate,
		fmt.Sprintf("Updated note %q", note.Title))
	s.invalidateOwners(ctx, models.EntityNote, note.ID)
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.invalidateOwners(ctx, models.EntityNote, id)
	if err := s.deps.Notes.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityNote, id, models.OpDelete, "Deleted note")
	return nil
}

func (s *NoteService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Note, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Notes.ListByUser(ctx, userID, limit, offset)
}

func (s *NoteService) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Note, error) {
	return s.deps.Notes.Search(ctx, userID, query)
}

// LinkService manages labelled URLs.
type LinkService struct {
	base
}

// NewLinkService creates the link controller.
func NewLinkService(deps Deps) *LinkService {
	return &LinkService{base: newBase(deps, "LinkService")}
}

func (s *LinkService) Create(ctx context.Context, userID uuid.UUID, title, url string) (*models.Link, error) {
	link := &models.Link{
		UserID: userID,
		Title:  title,
		URL:    url,
	}
	if err := link.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Links.Create(ctx, link); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityLink, link.ID, models.OpCreate,
		fmt.Sprintf("Created link %q", link.Title))
	return link, nil
}

func (s *LinkService) GetByID(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	return s.deps.Links.GetByID(ctx, id)
}

func (s *LinkService) Update(ctx context.Context, userID, id uuid.UUID, title, url string) (*models.Link, error) {
	link, err := s.deps.Links.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	link.Title = title
	link.URL = url
	if err := link.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Links.Update(ctx, link); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityLink, link.ID, models.OpUpdate,
		fmt.Sprintf("Updated link %q", link.Title))
	s.invalidateOwners(ctx, models.EntityLink, link.ID)
	return link, nil
}

func (s *LinkService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.invalidateOwners(ctx, models.EntityLink, id)
	if err := s.deps.Links.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityLink, id, models.OpDelete, "Deleted link")
	return nil
}

func (s *LinkService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Link, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Links.ListByUser(ctx, userID, limit, offset)
}

// ImageService manages image metadata; the payload lives on disk.
type ImageService struct {
	base
}

// NewImageService creates the image controller.
func NewImageService(deps Deps) *ImageService {
	return &ImageService{base: newBase(deps, "ImageService")}
}

func (s *ImageService) Create(ctx context.Context, userID uuid.UUID, image models.Image) (*models.Image, error) {
	image.ID = uuid.Nil
	image.UserID = userID
	if err := image.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Images.Create(ctx, &image); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityImage, image.ID, models.OpCreate,
		fmt.Sprintf("Registered image %q", image.Filename))
	return &image, nil
}

func (s *ImageService) GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	return s.deps.Images.GetByID(ctx, id)
}

func (s *ImageService) Update(ctx context.Context, userID uuid.UUID, updated models.Image) (*models.Image, error) {
	image, err := s.deps.Images.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	image.Filename = updated.Filename
	image.Dirname = updated.Dirname
	image.SizeBytes = updated.SizeBytes
	image.MimeType = updated.MimeType
	image.Caption = updated.Caption
	if err := image.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Images.Update(ctx, image); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityImage, image.ID, models.OpUpdate,
		fmt.Sprintf("Updated image %q", image.Filename))
	s.invalidateOwners(ctx, models.EntityImage, image.ID)
	return image, nil
}

func (s *ImageService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.invalidateOwners(ctx, models.EntityImage, id)
	if err := s.deps.Images.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityImage, id, models.OpDelete, "Deleted image")
	return nil
}

func (s *ImageService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Image, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Images.ListByUser(ctx, userID, limit, offset)
}
