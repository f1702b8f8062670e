// Package llm provides LLM provider clients behind a single interface.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/docseekhq/docseek/internal/models"
)

// ItemType discriminates the in-turn exchange items a Request carries
// beyond the stored role/content history: the model's tool calls and
// their outputs never touch the history store.
type ItemType string

const (
	ItemUserMessage      ItemType = "user_message"
	ItemAssistantMessage ItemType = "assistant_message"
	ItemToolCall         ItemType = "tool_call"
	ItemToolOutput       ItemType = "tool_output"
)

// Item is one element of the current turn's exchange.
//
// Variant field mapping:
//
//	UserMessage / AssistantMessage: Content
//	ToolCall:                       CallID, Name, Arguments (raw JSON)
//	ToolOutput:                     CallID, Content, IsError
type Item struct {
	Type      ItemType `json:"type"`
	Content   string   `json:"content,omitempty"`
	CallID    string   `json:"call_id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Arguments string   `json:"arguments,omitempty"`
	IsError   bool     `json:"is_error,omitempty"`
}

// ToolSpec describes one retrieval tool offered to the model.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// Request is one completion call. History is the bounded stored
// context in the exact two-field shape; Turn is the current turn's
// exchange, starting with the new user message and growing with tool
// calls and outputs as the retrieval loop progresses.
type Request struct {
	Model       string
	Temperature float64
	MaxTokens   int

	System  string
	History []models.PromptMessage
	Turn    []Item
	Tools   []ToolSpec
}

// FinishReason indicates why the model stopped.
type FinishReason string

const (
	FinishStop      FinishReason = "stop"
	FinishToolCalls FinishReason = "tool_calls"
	FinishLength    FinishReason = "length"
)

// Usage tracks token consumption for the status bar.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the model's output: assistant text and/or tool calls.
type Response struct {
	Items        []Item       `json:"items"`
	FinishReason FinishReason `json:"finish_reason"`
	Usage        Usage        `json:"usage"`
}

// Client is the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, request Request) (Response, error)
}

// NewClient creates the client for the named provider.
func NewClient(provider, apiKey, baseURL string) (Client, error) {
	switch provider {
	case "openai", "":
		return NewOpenAIClient(apiKey, baseURL), nil
	case "anthropic":
		return NewAnthropicClient(apiKey, baseURL), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic)", provider)
	}
}

// classifyByStatusCode maps an HTTP status code to the matching
// AgentError. Shared by both provider error classifiers.
//
//   - 429: rate limit
//   - 408, 409, 5xx: transient
//   - other 4xx: fatal client error
func classifyByStatusCode(statusCode int, err error) *models.AgentError {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return models.NewAPILimitError(fmt.Sprintf("rate limit (%d): %v", statusCode, err))
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusConflict:
		return models.NewTransientError(fmt.Sprintf("retryable error (%d): %v", statusCode, err))
	case statusCode >= 400 && statusCode < 500:
		return models.NewFatalError(fmt.Sprintf("client error (%d): %v", statusCode, err))
	case statusCode >= 500:
		return models.NewTransientError(fmt.Sprintf("server error (%d): %v", statusCode, err))
	default:
		return models.NewTransientError(fmt.Sprintf("unexpected status (%d): %v", statusCode, err))
	}
}
