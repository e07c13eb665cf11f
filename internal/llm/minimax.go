package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dooshek/storyteller/internal/logger"
	"github.com/dooshek/storyteller/internal/retry"
	"github.com/sashabaranov/go-openai"
)

// MiniMaxProvider implements Provider against the MiniMax OpenAI-compatible
// chat completion endpoint
type MiniMaxProvider struct {
	client *openai.Client
}

// NewMiniMaxProvider creates a provider for the given API key and base URL
func NewMiniMaxProvider(apiKey, baseURL string) *MiniMaxProvider {
	logger.Debugf("Creating MiniMax provider with base URL: %s", baseURL)

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &MiniMaxProvider{
		client: openai.NewClientWithConfig(config),
	}
}

// Completion sends a chat completion request to the MiniMax API
func (p *MiniMaxProvider) Completion(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	logger.Debugf("Sending completion request with model: %s", req.Model)

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       req.Model,
			Messages:    messages,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		},
	)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return CompletionResult{}, fmt.Errorf("chat completion: %w", retry.ErrThrottled)
		}
		return CompletionResult{}, fmt.Errorf("error creating completion with MiniMax: %w", err)
	}

	if len(resp.Choices) == 0 {
		return CompletionResult{}, ErrMalformed
	}

	choice := resp.Choices[0]
	result := CompletionResult{
		Content: choice.Message.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}

	if result.Content == "" {
		if choice.FinishReason == openai.FinishReasonLength {
			return result, ErrTokenLimit
		}
		return result, ErrEmptyContent
	}

	logger.Debugf("Completion used %d prompt + %d completion tokens",
		result.Usage.PromptTokens, result.Usage.CompletionTokens)
	return result, nil
}
