package provider

import (
	"errors"
	"strings"
	"testing"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

func TestClassifyGeminiError_CodeMapping(t *testing.T) {
	tests := []struct {
		code      int
		kind      apperrors.Kind
		retryable bool
	}{
		{401, apperrors.KindAuth, false},
		{400, apperrors.KindBadRequest, false},
		{404, apperrors.KindBadRequest, false},
		{429, apperrors.KindRateLimit, true},
		{503, apperrors.KindTransient, true},
	}
	for _, tt := range tests {
		err := classifyGeminiError(&googleapi.Error{Code: tt.code})
		assertErrorKind(t, err, tt.kind)
		if apperrors.IsRetryable(err) != tt.retryable {
			t.Fatalf("code %d: retryable = %v, want %v", tt.code, !tt.retryable, tt.retryable)
		}
	}
}

func TestClassifyGeminiError_DoesNotExposeRawMessage(t *testing.T) {
	err := classifyGeminiError(errors.New("SECRET_FIELD_VALUE"))
	assertErrorKind(t, err, apperrors.KindTransient)
	if strings.Contains(err.Error(), "SECRET_FIELD_VALUE") {
		t.Fatalf("expected safe message, got %q", err.Error())
	}
}

func TestClassifyOpenAIError(t *testing.T) {
	assertErrorKind(t, classifyOpenAIError(&openai.APIError{HTTPStatusCode: 429}), apperrors.KindRateLimit)
	assertErrorKind(t, classifyOpenAIError(&openai.APIError{HTTPStatusCode: 401}), apperrors.KindAuth)
	assertErrorKind(t, classifyOpenAIError(&openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}), apperrors.KindTransient)
	assertErrorKind(t, classifyOpenAIError(errors.New("dial tcp: timeout")), apperrors.KindTransient)
}

func assertErrorKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected apperrors.Error, got %T (%v)", err, err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s", kind, appErr.Kind)
	}
}
