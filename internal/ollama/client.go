package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.ModelClient = (*Client)(nil)

// Client wraps the ollama HTTP API for single-shot generation.
type Client struct {
	api *api.Client
}

// New creates a client for the given ollama endpoint, e.g.
// "http://localhost:11434".
func New(endpoint string) (*Client, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama endpoint %q: %w", endpoint, err)
	}
	return &Client{
		api: api.NewClient(base, http.DefaultClient),
	}, nil
}

// Generate runs one non-streaming completion. Errors the model server
// reported come back wrapped with models.ErrModel; transport failures come
// back as-is so the dispatcher can retry them.
func (c *Client) Generate(ctx context.Context, req interfaces.ModelRequest) (string, error) {
	stream := false
	apiReq := &api.GenerateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_ctx":     req.ContextWindow,
		},
	}
	if req.KeepAlive > 0 {
		apiReq.KeepAlive = &api.Duration{Duration: req.KeepAlive}
	}
	for _, img := range req.Images {
		apiReq.Images = append(apiReq.Images, api.ImageData(img))
	}

	var sb strings.Builder
	err := c.api.Generate(ctx, apiReq, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			log.Error().Err(err).Str("model", req.Model).Int("status", statusErr.StatusCode).
				Msg("Model endpoint rejected the request")
			return "", fmt.Errorf("model %s: %s: %w", req.Model, statusErr.ErrorMessage, models.ErrModel)
		}
		log.Warn().Err(err).Str("model", req.Model).Msg("Failed to reach model endpoint")
		return "", fmt.Errorf("failed to reach model endpoint: %w", err)
	}

	log.Debug().Str("model", req.Model).Int("responseLen", sb.Len()).Msg("Generation complete")
	return sb.String(), nil
}
