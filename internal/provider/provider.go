// Package provider implements the text generation backends used to
// summarize chapters and books.
//
// Every backend satisfies Provider: text goes in together with an
// instruction and text comes out. Backends never retry; a failure is
// returned to the caller as a *book.ToolError carrying whatever
// diagnostic text the backend produced.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/metcalfc/booksum/internal/book"
)

// Kind names a backend implementation.
type Kind string

const (
	KindClaudeCLI    Kind = "claude-cli"
	KindAnthropicAPI Kind = "anthropic-api"
	KindOpenAI       Kind = "openai"
)

// Kinds lists the supported backends.
var Kinds = []Kind{KindClaudeCLI, KindAnthropicAPI, KindOpenAI}

const defaultHTTPTimeout = 120 * time.Second

// Options tunes a single Generate call.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

// Provider turns an input text plus an instruction into generated text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, input, directive string, opts Options) (string, error)
}

// Config carries the settings needed by every backend. Only the fields
// for the selected Kind are used.
type Config struct {
	Kind Kind

	ClaudeBinary string

	AnthropicAPIKey  string
	AnthropicBaseURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	Timeout time.Duration
}

// ParseKind validates a backend name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown provider %q", book.ErrInvalidInput, s)
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(kind Kind) string {
	switch kind {
	case KindAnthropicAPI:
		return "claude-3-5-haiku-latest"
	case KindOpenAI:
		return "gpt-4o-mini"
	default:
		return "haiku"
	}
}

// New builds the backend selected by cfg.Kind.
func New(cfg Config) (Provider, error) {
	kind, err := ParseKind(string(cfg.Kind))
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	switch kind {
	case KindClaudeCLI:
		return NewClaudeCLI(cfg.ClaudeBinary), nil
	case KindAnthropicAPI:
		if strings.TrimSpace(cfg.AnthropicAPIKey) == "" {
			return nil, fmt.Errorf("%w: anthropic-api provider requires an API key (ANTHROPIC_API_KEY)", book.ErrConfiguration)
		}
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, timeout), nil
	case KindOpenAI:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return nil, fmt.Errorf("%w: openai provider requires an API key (OPENAI_API_KEY)", book.ErrConfiguration)
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, timeout), nil
	}
	return nil, fmt.Errorf("%w: unknown provider %q", book.ErrInvalidInput, cfg.Kind)
}

func modelOrDefault(kind Kind, model string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	return DefaultModel(kind)
}

func summarizeSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 200
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
