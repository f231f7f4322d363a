package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/httpclient"
	"github.com/oukeidos/tarjama/internal/language"
	"google.golang.org/api/option"
)

// Gemini translates through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini backend for the given language pair.
func NewGemini(ctx context.Context, apiKey, modelName string, source, target language.Language) (*Gemini, error) {
	// option.WithHTTPClient would bypass the API key header injection of the
	// genai client, so timeouts are enforced through the context instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemPrompt(source, target))},
	}

	return &Gemini{client: client, model: model}, nil
}

// Close closes the underlying genai client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Translate(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", classifyGeminiError(err)
	}
	out, err := extractResponseText(resp)
	if err != nil {
		return "", apperrors.Validation(err)
	}
	return out, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		if out := strings.TrimSpace(b.String()); out != "" {
			return out, nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}

// SystemPrompt is the instruction given to chat-style models.
func SystemPrompt(source, target language.Language) string {
	from := source.Name
	if source.Code == "auto" || from == "" {
		from = "the source language"
	}
	return fmt.Sprintf(`You are a professional translator from %s to %s.
Translate the user's message into %s.
- Output ONLY the translation, without quotes, notes or the source text.
- Preserve line breaks, numbers, URLs and punctuation style.
- If the message is already in %s or cannot be translated, repeat it unchanged.`,
		from, target.Name, target.Name, target.Name)
}
