package service

import (
	"context"
	"fmt"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages the local operator account.
type UserService struct {
	base
}

// NewUserService creates the user controller.
func NewUserService(deps Deps) *UserService {
	return &UserService{base: newBase(deps, "UserService")}
}

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, username, displayName, email, password string) (*models.User, error) {
	if password == "" {
		return nil, fmt.Errorf("a password is required: %w", models.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:     username,
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, user.ID, models.EntityUser, user.ID, models.OpCreate,
		fmt.Sprintf("Registered user %q", user.Username))
	return user, nil
}

// Authenticate checks the password for a username. A wrong password and an
// unknown username both come back as models.ErrNotFound so callers cannot
// probe for accounts.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.deps.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrNotFound
	}
	return user, nil
}

// GetByID returns one account.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.deps.Users.GetByID(ctx, id)
}

// GetByUsername returns one account by its login name.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.deps.Users.GetByUsername(ctx, username)
}

// UpdateProfile rewrites the display name and email.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, email string) (*models.User, error) {
	user, err := s.deps.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.DisplayName = displayName
	user.Email = email
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.deps.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, user.ID, models.EntityUser, user.ID, models.OpUpdate, "Updated profile")
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	user, err := s.deps.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("current password does not match: %w", models.ErrValidation)
	}
	if next == "" {
		return fmt.Errorf("a password is required: %w", models.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.deps.Users.Update(ctx, user); err != nil {
		return err
	}
	s.recordActivity(ctx, user.ID, models.EntityUser, user.ID, models.OpUpdate, "Changed password")
	return nil
}
