package llm

import (
	"context"
	"errors"
)

var (
	// ErrTokenLimit indicates the completion was cut off by the token cap
	// before producing any content
	ErrTokenLimit = errors.New("completion truncated by token limit")

	// ErrEmptyContent indicates the model returned an empty completion
	ErrEmptyContent = errors.New("empty completion content")

	// ErrMalformed indicates the API response carried no choices
	ErrMalformed = errors.New("malformed completion response")
)

// Message represents a message in a chat completion request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents the parameters for a completion request
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
}

// Usage reports token consumption for a single completion
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// CompletionResult is the content and accounting of one completion
type CompletionResult struct {
	Content string
	Usage   Usage
}

// Provider defines the interface for chat completion providers
type Provider interface {
	Completion(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}
