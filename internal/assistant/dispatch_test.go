package assistant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/mocks"
	"gnatwriter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDispatcher(client interfaces.ModelClient, activities interfaces.ActivityRepository) *Dispatcher {
	cfg := &Config{
		Chat:       RoleConfig{Model: "gemma:2b", ContextWindow: 4096, MemoryDuration: 8},
		Generative: RoleConfig{Model: "llama2:7b", ContextWindow: 4096},
		Multimodal: RoleConfig{Model: "llava:7b", ContextWindow: 4096},
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}
	return &Dispatcher{
		cfg:        cfg,
		clients:    map[Role]interfaces.ModelClient{RoleChat: client, RoleGenerative: client, RoleMultimodal: client},
		activities: activities,
		logger:     zap.NewNop(),
	}
}

func chatRequest(sessionID uuid.UUID) DispatchRequest {
	return DispatchRequest{
		UserID:      uuid.New(),
		SessionID:   sessionID,
		Role:        RoleChat,
		Prompt:      &Prompt{System: "instruction", Text: "scene text", Size: 10},
		UserMessage: "continue the scene",
		EntityType:  models.EntityScene,
		EntityID:    uuid.New(),
	}
}

func TestDispatchLogsTurn(t *testing.T) {
	client := new(mocks.ModelClient)
	activities := new(mocks.ActivityRepository)
	d := newTestDispatcher(client, activities)

	sessionID := uuid.New()
	client.On("Generate", mock.Anything, mock.Anything).Return("she opened the door", nil).Once()

	var logged *models.Activity
	activities.On("Append", mock.Anything, mock.AnythingOfType("*models.Activity")).
		Run(func(args mock.Arguments) {
			logged = args.Get(1).(*models.Activity)
		}).
		Return(nil).Once()

	response, err := d.Dispatch(context.Background(), chatRequest(sessionID))
	require.NoError(t, err)
	assert.Equal(t, "she opened the door", response)

	require.NotNil(t, logged)
	assert.Equal(t, models.OpDispatch, logged.Operation)
	assert.Equal(t, sessionID, logged.SessionID)
	turns := DecodeTurns([]models.Activity{*logged})
	require.Len(t, turns, 1)
	assert.Equal(t, "continue the scene", turns[0].Prompt)
	assert.Equal(t, "she opened the door", turns[0].Response)

	client.AssertExpectations(t)
	activities.AssertExpectations(t)
}

func TestDispatchRetriesConnectivityFailures(t *testing.T) {
	client := new(mocks.ModelClient)
	activities := new(mocks.ActivityRepository)
	d := newTestDispatcher(client, activities)

	client.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection refused")).Twice()
	client.On("Generate", mock.Anything, mock.Anything).Return("recovered", nil).Once()
	activities.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	response, err := d.Dispatch(context.Background(), chatRequest(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, "recovered", response)
	client.AssertNumberOfCalls(t, "Generate", 3)
}

func TestDispatchExhaustedRetries(t *testing.T) {
	client := new(mocks.ModelClient)
	activities := new(mocks.ActivityRepository)
	d := newTestDispatcher(client, activities)

	client.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	_, err := d.Dispatch(context.Background(), chatRequest(uuid.New()))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDispatch)
	client.AssertNumberOfCalls(t, "Generate", 3)
	activities.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestDispatchModelErrorFailsFast(t *testing.T) {
	client := new(mocks.ModelClient)
	activities := new(mocks.ActivityRepository)
	d := newTestDispatcher(client, activities)

	modelErr := fmt.Errorf("model reported: bad template: %w", models.ErrModel)
	client.On("Generate", mock.Anything, mock.Anything).Return("", modelErr)

	_, err := d.Dispatch(context.Background(), chatRequest(uuid.New()))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrModel)
	assert.NotErrorIs(t, err, models.ErrDispatch)
	client.AssertNumberOfCalls(t, "Generate", 1)
}

func TestDispatchAppendFailureSurfaces(t *testing.T) {
	client := new(mocks.ModelClient)
	activities := new(mocks.ActivityRepository)
	d := newTestDispatcher(client, activities)

	client.On("Generate", mock.Anything, mock.Anything).Return("ok", nil).Once()
	activities.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	_, err := d.Dispatch(context.Background(), chatRequest(uuid.New()))
	require.Error(t, err)
}

func TestDispatchUnknownRole(t *testing.T) {
	d := newTestDispatcher(new(mocks.ModelClient), new(mocks.ActivityRepository))

	req := chatRequest(uuid.New())
	req.Role = Role("oracle")
	_, err := d.Dispatch(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "gemma:2b", cfg.Chat.Model)
	assert.Equal(t, "llama2:7b", cfg.Generative.Model)
	assert.Equal(t, "llava:7b", cfg.Multimodal.Model)
	assert.Equal(t, 4096, cfg.Chat.ContextWindow)
	assert.Equal(t, 8, cfg.Chat.MemoryDuration)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistants.yml")
	body := `chat:
  model: mistral:7b
  context_window: 2048
  memory_duration: 4
generative:
  model: llama3:8b
max_retries: 5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral:7b", cfg.Chat.Model)
	assert.Equal(t, 2048, cfg.Chat.ContextWindow)
	assert.Equal(t, 4, cfg.Chat.MemoryDuration)
	assert.Equal(t, "llama3:8b", cfg.Generative.Model)
	assert.Equal(t, 5, cfg.MaxRetries)
	// Untouched roles keep their defaults.
	assert.Equal(t, "llava:7b", cfg.Multimodal.Model)
	assert.Equal(t, 4096, cfg.Multimodal.ContextWindow)
}

func TestLoadConfigRejectsNegativeMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistants.yml")
	body := `chat:
  memory_duration: -1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestConfigForRole(t *testing.T) {
	cfg := &Config{Chat: RoleConfig{Model: "a"}, Generative: RoleConfig{Model: "b"}, Multimodal: RoleConfig{Model: "c"}}

	rc, err := cfg.ForRole(RoleGenerative)
	require.NoError(t, err)
	assert.Equal(t, "b", rc.Model)

	_, err = cfg.ForRole(Role("unknown"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}
