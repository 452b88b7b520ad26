package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/metcalfc/booksum/internal/book"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAI calls an OpenAI-compatible chat completions endpoint, which also
// covers OpenRouter and local servers exposing the same API.
type OpenAI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAI returns a chat completions backend. baseURL is the full
// completions endpoint.
func NewOpenAI(apiKey, baseURL string, timeout time.Duration) *OpenAI {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}
	return &OpenAI{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (o *OpenAI) Name() string { return string(KindOpenAI) }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenAI) Generate(ctx context.Context, input, directive string, opts Options) (string, error) {
	payload := chatCompletionRequest{
		Model: modelOrDefault(KindOpenAI, opts.Model),
		Messages: []chatMessage{
			{Role: "system", Content: directive},
			{Role: "user", Content: input},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &book.ToolError{Tool: "openai api", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &book.ToolError{
			Tool:       "openai api",
			ExitCode:   resp.StatusCode,
			Diagnostic: summarizeSnippet(string(body)),
		}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if completion.Error != nil {
		return "", &book.ToolError{Tool: "openai api", Diagnostic: strings.TrimSpace(completion.Error.Message)}
	}
	if len(completion.Choices) == 0 {
		return "", &book.ToolError{Tool: "openai api", Diagnostic: "empty choices: " + summarizeSnippet(string(body))}
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
