package service

import (
	"context"
	"fmt"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
)

// AuthorService manages author identities, real names and pseudonyms alike.
type AuthorService struct {
	base
}

// NewAuthorService creates the author controller.
func NewAuthorService(deps Deps) *AuthorService {
	return &AuthorService{base: newBase(deps, "AuthorService")}
}

func (s *AuthorService) Create(ctx context.Context, userID uuid.UUID, name, initials string, isPseudonym bool) (*models.Author, error) {
	author := &models.Author{
		UserID:      userID,
		Name:        name,
		Initials:    initials,
		IsPseudonym: isPseudonym,
	}
	if err := author.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Authors.Create(ctx, author); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityAuthor, author.ID, models.OpCreate,
		fmt.Sprintf("Created author %q", author.Name))
	return author, nil
}

func (s *AuthorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	return s.deps.Authors.GetByID(ctx, id)
}

func (s *AuthorService) GetByName(ctx context.Context, userID uuid.UUID, name string) (*models.Author, error) {
	return s.deps.Authors.GetByName(ctx, userID, name)
}

func (s *AuthorService) Update(ctx context.Context, userID uuid.UUID, updated models.Author) (*models.Author, error) {
	author, err := s.deps.Authors.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	author.Name = updated.Name
	author.Initials = updated.Initials
	author.IsPseudonym = updated.IsPseudonym
	if err := author.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Authors.Update(ctx, author); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityAuthor, author.ID, models.OpUpdate,
		fmt.Sprintf("Updated author %q", author.Name))
	s.invalidateOwners(ctx, models.EntityAuthor, author.ID)
	return author, nil
}

func (s *AuthorService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.invalidateOwners(ctx, models.EntityAuthor, id)
	if err := s.deps.Authors.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityAuthor, id, models.OpDelete, "Deleted author")
	return nil
}

func (s *AuthorService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Author, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.deps.Authors.ListByUser(ctx, userID, limit, offset)
}

// BibliographyService manages per-story reference works.
type BibliographyService struct {
	base
}

// NewBibliographyService creates the bibliography controller.
func NewBibliographyService(deps Deps) *BibliographyService {
	return &BibliographyService{base: newBase(deps, "BibliographyService")}
}

// Create records a reference work. The parent story must exist.
func (s *BibliographyService) Create(ctx context.Context, userID uuid.UUID, entry models.Bibliography) (*models.Bibliography, error) {
	entry.ID = uuid.Nil
	entry.UserID = userID
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.deps.Stories.GetByID(ctx, entry.StoryID); err != nil {
		return nil, err
	}
	if err := s.deps.Bibliographies.Create(ctx, &entry); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityBibliography, entry.ID, models.OpCreate,
		fmt.Sprintf("Added bibliography entry %q", entry.Title))
	s.invalidateStory(ctx, entry.StoryID)
	return &entry, nil
}

func (s *BibliographyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Bibliography, error) {
	return s.deps.Bibliographies.GetByID(ctx, id)
}

func (s *BibliographyService) Update(ctx context.Context, userID uuid.UUID, updated models.Bibliography) (*models.Bibliography, error) {
	entry, err := s.deps.Bibliographies.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	entry.Title = updated.Title
	entry.Pages = updated.Pages
	entry.Publisher = updated.Publisher
	entry.PublicationDate = updated.PublicationDate
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Bibliographies.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntityBibliography, entry.ID, models.OpUpdate,
		fmt.Sprintf("Updated bibliography entry %q", entry.Title))
	s.invalidateStory(ctx, entry.StoryID)
	return entry, nil
}

func (s *BibliographyService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	entry, err := s.deps.Bibliographies.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Bibliographies.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntityBibliography, id, models.OpDelete,
		fmt.Sprintf("Removed bibliography entry %q", entry.Title))
	s.invalidateStory(ctx, entry.StoryID)
	return nil
}

func (s *BibliographyService) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Bibliography, error) {
	return s.deps.Bibliographies.ListByStory(ctx, storyID)
}

// SubmissionService tracks where a story has been sent and what came back.
type SubmissionService struct {
	base
}

// NewSubmissionService creates the submission controller.
func NewSubmissionService(deps Deps) *SubmissionService {
	return &SubmissionService{base: newBase(deps, "SubmissionService")}
}

// Create records a submission. The parent story must exist.
func (s *SubmissionService) Create(ctx context.Context, userID uuid.UUID, submission models.Submission) (*models.Submission, error) {
	submission.ID = uuid.Nil
	submission.UserID = userID
	if submission.Result == "" {
		submission.Result = models.SubmissionPending
	}
	if err := submission.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.deps.Stories.GetByID(ctx, submission.StoryID); err != nil {
		return nil, err
	}
	if err := s.deps.Submissions.Create(ctx, &submission); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntitySubmission, submission.ID, models.OpCreate,
		fmt.Sprintf("Submitted to %q", submission.Market))
	s.invalidateStory(ctx, submission.StoryID)
	return &submission, nil
}

func (s *SubmissionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	return s.deps.Submissions.GetByID(ctx, id)
}

func (s *SubmissionService) Update(ctx context.Context, userID uuid.UUID, updated models.Submission) (*models.Submission, error) {
	submission, err := s.deps.Submissions.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	submission.Market = updated.Market
	submission.DateSent = updated.DateSent
	submission.Result = updated.Result
	submission.Amount = updated.Amount
	if err := submission.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Submissions.Update(ctx, submission); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, userID, models.EntitySubmission, submission.ID, models.OpUpdate,
		fmt.Sprintf("Updated submission to %q", submission.Market))
	s.invalidateStory(ctx, submission.StoryID)
	return submission, nil
}

func (s *SubmissionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	submission, err := s.deps.Submissions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Submissions.Delete(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, models.EntitySubmission, id, models.OpDelete,
		fmt.Sprintf("Removed submission to %q", submission.Market))
	s.invalidateStory(ctx, submission.StoryID)
	return nil
}

func (s *SubmissionService) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Submission, error) {
	return s.deps.Submissions.ListByStory(ctx, storyID)
}
