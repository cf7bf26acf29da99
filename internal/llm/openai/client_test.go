package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AbiralTr/Arc-Web/internal/llm"
	"github.com/AbiralTr/Arc-Web/internal/models"
)

func newStubClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newClient(&Config{APIKey: "test", Model: "test-model", BaseURL: server.URL + "/"})
}

func TestClientGenerateContentSuccess(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "test-model" || len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Errorf("unexpected request %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": ` {"title":"Walk"} `},
			}},
		})
	})

	resp, err := client.GenerateContent(context.Background(), &models.GenerationRequest{
		Prompt:       "quest prompt",
		Instructions: "only JSON",
		RequestID:    "req-1",
	})
	if err != nil {
		t.Fatalf("GenerateContent returned error: %v", err)
	}
	if resp.Content != `{"title":"Walk"}` {
		t.Fatalf("unexpected content %q", resp.Content)
	}
	if resp.Metadata.Provider != "openai" || resp.RequestID != "req-1" {
		t.Fatalf("unexpected metadata %+v", resp)
	}
}

func TestClientGenerateContentErrors(t *testing.T) {
	cases := map[int]string{
		http.StatusTooManyRequests:     llm.ErrCodeRateLimit,
		http.StatusUnauthorized:        llm.ErrCodeAPIKey,
		http.StatusInternalServerError: llm.ErrCodeServiceDown,
	}
	for status, code := range cases {
		client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"error"}}`))
		})

		_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "p"})
		var provErr *llm.ProviderError
		if !errors.As(err, &provErr) || provErr.Code != code {
			t.Fatalf("status %d: expected code %s, got %v", status, code, err)
		}
	}
}

func TestClientGenerateContentNoChoices(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`))
	})

	_, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "p"})
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != llm.ErrCodeInvalidInput {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestClientGenerateContentBlankMessageReturnsEmptyContent(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  \n"}}]}`))
	})

	resp, err := client.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("blank message should not be a provider error, got %v", err)
	}
	if resp.Content != "" {
		t.Fatalf("expected empty content, got %q", resp.Content)
	}
}

func TestNewConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "key")
	t.Setenv("OPENAI_MODEL", "")
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Fatalf("expected default model, got %s", cfg.Model)
	}

	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error when API key missing")
	}
}
