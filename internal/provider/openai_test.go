package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/language"
)

var (
	arabic  = language.Language{Code: "ar", Name: "Arabic"}
	english = language.Language{Code: "en", Name: "English"}
)

func TestOpenAI_Translate_Success(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" Hello \n"},"finish_reason":"stop"}],"usage":{"total_tokens":7}}`)
	}))
	defer server.Close()

	o := NewOpenAI("test-key", "test-model", server.URL, arabic, english)
	out, err := o.Translate(context.Background(), "مرحبا")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if out != "Hello" {
		t.Fatalf("Translate() = %q, want %q", out, "Hello")
	}
	if gotModel != "test-model" {
		t.Fatalf("model = %q", gotModel)
	}
}

func TestOpenAI_Translate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   apperrors.Kind
	}{
		{"429", http.StatusTooManyRequests, `{"error":{"message":"Rate limit: SECRET_FIELD_VALUE","type":"rate_limit_error","code":"rate_limit_exceeded"}}`, apperrors.KindRateLimit},
		{"401", http.StatusUnauthorized, `{"error":{"message":"Invalid API Key: SECRET_FIELD_VALUE","type":"auth_error"}}`, apperrors.KindAuth},
		{"500", http.StatusInternalServerError, "server down SECRET_FIELD_VALUE", apperrors.KindTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			o := NewOpenAI("test-key", "test-model", server.URL, arabic, english)
			_, err := o.Translate(context.Background(), "مرحبا")
			assertErrorKind(t, err, tt.kind)
			if strings.Contains(err.Error(), "SECRET_FIELD_VALUE") {
				t.Fatalf("error leaks provider message: %q", err.Error())
			}
		})
	}
}

func TestSystemPrompt_NamesLanguages(t *testing.T) {
	p := SystemPrompt(arabic, english)
	if !strings.Contains(p, "Arabic") || !strings.Contains(p, "English") {
		t.Fatalf("prompt does not name both languages: %q", p)
	}
	auto := SystemPrompt(language.Language{Code: "auto"}, english)
	if !strings.Contains(auto, "the source language") {
		t.Fatalf("auto prompt = %q", auto)
	}
}
