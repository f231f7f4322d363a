package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/httpclient"
	"github.com/oukeidos/tarjama/internal/language"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/sashabaranov/go-openai"
)

// OpenAI translates through the chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
	system string
}

// NewOpenAI creates an OpenAI backend. baseURL may be empty for the public API.
func NewOpenAI(apiKey, model, baseURL string, source, target language.Language) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = httpclient.GetDefaultClient()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		system: SystemPrompt(source, target),
	}
}

// GetModelID returns the configured model identifier.
func (o *OpenAI) GetModelID() string {
	return o.model
}

func (o *OpenAI) Translate(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.2,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", classifyOpenAIError(err)
	}
	logger.Debug("OpenAI API response", "usage_total", resp.Usage.TotalTokens, "response_id", resp.ID)

	if len(resp.Choices) == 0 {
		return "", apperrors.Validation(fmt.Errorf("no choices returned"))
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", apperrors.Validation(fmt.Errorf("empty completion"))
	}
	return out, nil
}
