package service

import (
	"context"
	"testing"

	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	t.Run("stores a bcrypt hash, never the password", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewUserService(tm.deps())

		var created *models.User
		tm.users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.User)
			}).
			Return(nil).Once()
		tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		user, err := svc.Register(context.Background(), "gnat", "Gnat", "gnat@example.com", "hunter2")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, "hunter2", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter2")))
		assert.Equal(t, "gnat", user.Username)
	})

	t.Run("requires a password", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewUserService(tm.deps())

		_, err := svc.Register(context.Background(), "gnat", "Gnat", "gnat@example.com", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		tm.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{ID: uuid.New(), Username: "gnat", PasswordHash: string(hash)}

	t.Run("accepts the right password", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewUserService(tm.deps())
		tm.users.On("GetByUsername", mock.Anything, "gnat").Return(account, nil).Once()

		user, err := svc.Authenticate(context.Background(), "gnat", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, account.ID, user.ID)
	})

	t.Run("wrong password reads as not found", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewUserService(tm.deps())
		tm.users.On("GetByUsername", mock.Anything, "gnat").Return(account, nil).Once()

		_, err := svc.Authenticate(context.Background(), "gnat", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("unknown account reads the same way", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewUserService(tm.deps())
		tm.users.On("GetByUsername", mock.Anything, "nobody").Return(nil, models.ErrNotFound).Once()

		_, err := svc.Authenticate(context.Background(), "nobody", "hunter2")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestChangePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("rejects a wrong current password", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewUserService(tm.deps())
		id := uuid.New()
		tm.users.On("GetByID", mock.Anything, id).
			Return(&models.User{ID: id, Username: "gnat", PasswordHash: string(hash)}, nil).Once()

		err := svc.ChangePassword(context.Background(), id, "wrong", "next3")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		tm.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("stores the new hash", func(t *testing.T) {
		tm := newTestMocks()
		svc := NewUserService(tm.deps())
		id := uuid.New()
		user := &models.User{ID: id, Username: "gnat", PasswordHash: string(hash)}
		tm.users.On("GetByID", mock.Anything, id).Return(user, nil).Once()
		tm.users.On("Update", mock.Anything, user).Return(nil).Once()
		tm.activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		require.NoError(t, svc.ChangePassword(context.Background(), id, "hunter2", "next3"))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("next3")))
	})
}
