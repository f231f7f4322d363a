package provider

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// classifyHTTPStatus maps a non-200 status of a plain HTTP backend.
func classifyHTTPStatus(name string, statusCode int, cause error) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return apperrors.New(apperrors.KindRateLimit, fmt.Sprintf("%s rate limit exceeded (429).", name), cause)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return apperrors.New(apperrors.KindAuth, fmt.Sprintf("%s rejected the credentials (%d).", name, statusCode), cause)
	case statusCode >= 500:
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s service temporary error (%d).", name, statusCode), cause)
	default:
		return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("%s request rejected (%d).", name, statusCode), cause)
	}
}

func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}

	wrapped := fmt.Errorf("gemini generate content failed: %w", err)

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 404:
			return apperrors.New(apperrors.KindBadRequest, "Gemini model not found or no access (404).", wrapped)
		case 400:
			return apperrors.New(apperrors.KindBadRequest, "Gemini request rejected (400).", wrapped)
		case 401, 403:
			return apperrors.New(apperrors.KindAuth, fmt.Sprintf("Gemini authentication/authorization failed (%d).", gerr.Code), wrapped)
		case 429:
			return apperrors.New(apperrors.KindRateLimit, "Gemini rate limit exceeded (429).", wrapped)
		default:
			if gerr.Code >= 500 {
				return apperrors.New(apperrors.KindTransient, fmt.Sprintf("Gemini service temporary error (%d).", gerr.Code), wrapped)
			}
			return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("Gemini API error (%d).", gerr.Code), wrapped)
		}
	}

	// DNS, socket and timeout failures are usually transient.
	return apperrors.New(apperrors.KindTransient, "Gemini request failed due to a temporary network/runtime error.", wrapped)
}

func classifyOpenAIError(err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("openai chat completion failed: %w", err)

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyHTTPStatus("OpenAI", apiErr.HTTPStatusCode, wrapped)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return classifyHTTPStatus("OpenAI", reqErr.HTTPStatusCode, wrapped)
	}
	return apperrors.New(apperrors.KindTransient, "OpenAI request failed due to a temporary network/runtime error.", wrapped)
}
