// Package venice implements the Venice AI chat-completion client and the
// enrichment strategies built on top of it.
package venice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the Venice API root.
const DefaultBaseURL = "https://api.venice.ai/api/v1"

// DefaultModel supports strict response schemas.
const DefaultModel = "venice-uncensored"

const maxErrorBodyLen = 300

// ChatMessage is a role-tagged message in a chat request.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content any    `json:"content"`
}

// JSONSchema is the strict output schema attached to a request.
type JSONSchema struct {
	Type                 string         `json:"type"`
	Properties           map[string]any `json:"properties"`
	Required             []string       `json:"required,omitempty"`
	AdditionalProperties bool           `json:"additionalProperties"`
}

// ResponseFormat constrains the completion content to a named JSON schema.
type ResponseFormat struct {
	Type       string      `json:"type"` // always "json_schema"
	JSONSchema NamedSchema `json:"json_schema"`
}

// NamedSchema wraps a schema with its name and strictness flag.
type NamedSchema struct {
	Name   string     `json:"name"`
	Strict bool       `json:"strict"`
	Schema JSONSchema `json:"schema"`
}

// ChatRequest is a chat-completion request.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatResponse is a chat-completion response.
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// APIError reports a failed AI call with a human-readable message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("venice: API error %d: %s", e.Status, e.Message)
}

// Client calls the Venice chat-completions endpoint. It performs no
// retries; transient failures propagate to the caller.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a client. baseURL and model fall back to the Venice
// defaults when empty.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// CreateChatCompletion posts the request and decodes the response. A
// successful call is guaranteed to hold at least one choice.
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("venice: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("venice: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("venice: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("venice: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}

	var out ChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("venice: parse response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, &APIError{Status: resp.StatusCode, Message: "no choices in response"}
	}
	return &out, nil
}

// completionContent runs the request and returns the content of the first
// choice, which the schema contract guarantees is valid JSON text.
func (c *Client) completionContent(ctx context.Context, req *ChatRequest) (string, error) {
	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &APIError{Status: http.StatusOK, Message: "empty completion content"}
	}
	return content, nil
}

// errorMessage extracts a diagnosable message from a failed call:
// the structured error.message field when the body is JSON, the
// truncated raw body otherwise, and a generic message for opaque
// serverless-gateway 500s.
func errorMessage(status int, body []byte) string {
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}

	text := strings.TrimSpace(string(body))
	// Serverless gateways answer 500 with opaque HTML pages; those are
	// useless to surface verbatim.
	if text == "" || (status >= 500 && strings.HasPrefix(text, "<")) {
		return "AI service temporarily unavailable"
	}
	if len(text) > maxErrorBodyLen {
		text = text[:maxErrorBodyLen] + "..."
	}
	return text
}
