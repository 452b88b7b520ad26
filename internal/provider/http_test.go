package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/metcalfc/booksum/internal/book"
)

func TestAnthropicGenerate(t *testing.T) {
	var got anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []any{
				map[string]any{"type": "text", "text": "  A short summary. "},
			},
		})
	}))
	defer server.Close()

	temp := 0.2
	p := NewAnthropic("test-key", server.URL, 5*time.Second)
	out, err := p.Generate(context.Background(), "body", "directive", Options{Model: "claude-test", Temperature: &temp})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "A short summary." {
		t.Errorf("output = %q", out)
	}
	if got.System != "directive" || len(got.Messages) != 1 || got.Messages[0].Content != "body" {
		t.Errorf("unexpected request %+v", got)
	}
	if got.Model != "claude-test" || got.MaxTokens != defaultMaxTokens {
		t.Errorf("unexpected model/max_tokens %q/%d", got.Model, got.MaxTokens)
	}
	if got.Temperature == nil || *got.Temperature != 0.2 {
		t.Errorf("temperature not forwarded: %v", got.Temperature)
	}
}

func TestAnthropicErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	_, err := NewAnthropic("k", server.URL, time.Second).Generate(context.Background(), "a", "b", Options{})
	var toolErr *book.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if toolErr.ExitCode != http.StatusTooManyRequests || !strings.Contains(toolErr.Diagnostic, "slow down") {
		t.Errorf("unexpected tool error %+v", toolErr)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": "SKIP\n"}},
			},
		})
	}))
	defer server.Close()

	out, err := NewOpenAI("sk-test", server.URL, time.Second).Generate(context.Background(), "body", "directive", Options{MaxTokens: 512})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "SKIP" {
		t.Errorf("output = %q", out)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "body" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
	if got.Model != DefaultModel(KindOpenAI) || got.MaxTokens != 512 || got.Temperature != nil {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := NewOpenAI("k", server.URL, time.Second).Generate(context.Background(), "a", "b", Options{})
	if !errors.Is(err, book.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr error
	}{
		{"claude cli", Config{Kind: KindClaudeCLI}, "claude-cli", nil},
		{"anthropic", Config{Kind: KindAnthropicAPI, AnthropicAPIKey: "k"}, "anthropic-api", nil},
		{"anthropic without key", Config{Kind: KindAnthropicAPI}, "", book.ErrConfiguration},
		{"openai", Config{Kind: "OpenAI", OpenAIAPIKey: "k"}, "openai", nil},
		{"openai without key", Config{Kind: KindOpenAI}, "", book.ErrConfiguration},
		{"unknown", Config{Kind: "ollama"}, "", book.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}
