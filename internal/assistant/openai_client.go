package assistant

import (
	"context"
	"errors"
	"fmt"

	"gnatwriter/internal/interfaces"
	"gnatwriter/internal/models"

	openai "github.com/sashabaranov/go-openai"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.ModelClient = (*openAIClient)(nil)

// openAIClient serves roles whose provider is "openai": any endpoint
// speaking the OpenAI chat completion protocol.
type openAIClient struct {
	client *openai.Client
}

func newOpenAIClient(rc RoleConfig) *openAIClient {
	config := openai.DefaultConfig(rc.APIKey)
	if rc.Endpoint != "" {
		config.BaseURL = rc.Endpoint
	}
	return &openAIClient{
		client: openai.NewClientWithConfig(config),
	}
}

func (c *openAIClient) Generate(ctx context.Context, req interfaces.ModelRequest) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.System},
		{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("model %s: %s: %w", req.Model, apiErr.Message, models.ErrModel)
		}
		return "", fmt.Errorf("failed to reach model endpoint: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no choices: %w", req.Model, models.ErrModel)
	}
	return resp.Choices[0].Message.Content, nil
}
