package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrUnavailable marks a failed call to the language model. Callers decide
// whether the failure is fatal (screening, consultation answer) or skippable
// (keyword extraction).
var ErrUnavailable = errors.New("language model unavailable")

// Completer is the single-call contract every AI component consumes. The
// model output is not deterministic, so retries must not assume idempotence.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error)
}

// Client wraps the OpenAI chat completion API.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a chat completion client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

// Complete runs a single chat completion over the given role-tagged messages
// and returns the trimmed response text.
func (c *Client) Complete(
	ctx context.Context,
	messages []openai.ChatCompletionMessage,
	maxTokens int,
	temperature float32,
) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUnavailable)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
