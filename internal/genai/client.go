// Package genai wraps the chat-completion endpoint used for intent
// classification and general-knowledge answers. Both callers share one client
// so credentials and endpoint overrides are configured in a single place.
package genai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Completer is the single-shot chat capability consumed by the classifier and
// the general advisor. Tests substitute a canned implementation.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is one chat completion call.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Client talks to an OpenAI-compatible chat endpoint.
type Client struct {
	client openai.Client
	model  string
}

// New creates a chat client. baseURL is optional and points the client at an
// OpenAI-compatible gateway when set.
func New(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Complete sends one user message and returns the assistant text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
