package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/metrics"
	"gnatwriter/internal/models"
	"gnatwriter/internal/ollama"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DispatchRequest is one assembled prompt bound for a role's endpoint.
type DispatchRequest struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Role      Role
	Prompt    *Prompt
	// UserMessage is the raw request text, logged as the session turn.
	UserMessage string
	EntityType  models.EntityType
	EntityID    uuid.UUID
	Images      [][]byte
}

// Dispatcher resolves a role to its client and runs the call with bounded
// retries. Only connectivity failures retry; errors the model itself
// reported surface immediately as models.ErrModel. Exhausted retries become
// models.ErrDispatch. Every completed dispatch appends an Activity row that
// doubles as session history.
type Dispatcher struct {
	cfg        *Config
	clients    map[Role]interfaces.ModelClient
	activities interfaces.ActivityRepository
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewDispatcher builds the per-role clients from the configuration.
// metrics may be nil.
func NewDispatcher(cfg *Config, activities interfaces.ActivityRepository, m *metrics.Metrics, logger *zap.Logger) (*Dispatcher, error) {
	clients := make(map[Role]interfaces.ModelClient, 3)
	for role, rc := range map[Role]RoleConfig{
		RoleChat:       cfg.Chat,
		RoleGenerative: cfg.Generative,
		RoleMultimodal: cfg.Multimodal,
	} {
		client, err := newClient(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s client: %w", role, err)
		}
		clients[role] = client
	}
	return &Dispatcher{
		cfg:        cfg,
		clients:    clients,
		activities: activities,
		metrics:    m,
		logger:     logger.Named("Dispatcher"),
	}, nil
}

func newClient(rc RoleConfig) (interfaces.ModelClient, error) {
	switch rc.Provider {
	case "", "ollama":
		return ollama.New(rc.Endpoint)
	case "openai":
		return newOpenAIClient(rc), nil
	default:
		return nil, fmt.Errorf("unknown provider %q: %w", rc.Provider, models.ErrValidation)
	}
}

// Dispatch runs the call and logs the turn. The caller bounds total wall
// time through ctx.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) (string, error) {
	rc, err := d.cfg.ForRole(req.Role)
	if err != nil {
		return "", err
	}
	client := d.clients[req.Role]

	modelReq := interfaces.ModelRequest{
		Model:         rc.Model,
		System:        req.Prompt.System,
		Prompt:        req.Prompt.Text,
		Images:        req.Images,
		Temperature:   rc.Temperature,
		ContextWindow: rc.ContextWindow,
		KeepAlive:     rc.KeepAlive,
	}

	start := time.Now()
	response, err := d.generate(ctx, client, rc, modelReq)
	if d.metrics != nil {
		d.metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return "", err
	}

	activity := &models.Activity{
		UserID:     req.UserID,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Operation:  models.OpDispatch,
		Summary:    summarize(fmt.Sprintf("%s dispatch to %s", req.Role, rc.Model)),
		SessionID:  req.SessionID,
		Detail:     EncodeTurn(Turn{Prompt: req.UserMessage, Response: response}),
	}
	if err := d.activities.Append(ctx, activity); err != nil {
		d.logger.Error("Failed to log dispatch turn", zap.Error(err),
			zap.String("sessionID", req.SessionID.String()))
		return "", err
	}
	return response, nil
}

func (d *Dispatcher) generate(ctx context.Context, client interfaces.ModelClient, rc RoleConfig, modelReq interfaces.ModelRequest) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= d.cfg.MaxRetries; attempt++ {
		response, err := client.Generate(ctx, modelReq)
		if err == nil {
			return response, nil
		}
		if errors.Is(err, models.ErrModel) {
			if d.metrics != nil {
				d.metrics.DispatchFailures.WithLabelValues("model").Inc()
			}
			return "", err
		}
		lastErr = err
		if attempt == d.cfg.MaxRetries {
			break
		}
		if d.metrics != nil {
			d.metrics.DispatchRetries.Inc()
		}
		d.logger.Warn("Dispatch attempt failed, retrying",
			zap.Error(err), zap.String("model", rc.Model), zap.Int("attempt", attempt))

		// Linear backoff, bounded by the caller's context.
		select {
		case <-time.After(time.Duration(attempt) * d.cfg.RetryDelay):
		case <-ctx.Done():
			if d.metrics != nil {
				d.metrics.DispatchFailures.WithLabelValues("dispatch").Inc()
			}
			return "", fmt.Errorf("dispatch cancelled: %v: %w", ctx.Err(), models.ErrDispatch)
		}
	}
	if d.metrics != nil {
		d.metrics.DispatchFailures.WithLabelValues("dispatch").Inc()
	}
	return "", fmt.Errorf("endpoint unreachable after %d attempts: %v: %w",
		d.cfg.MaxRetries, lastErr, models.ErrDispatch)
}

func summarize(s string) string {
	const maxSummary = 250
	if len(s) > maxSummary {
		return s[:maxSummary]
	}
	return s
}
