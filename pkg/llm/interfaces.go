// Package llm provides generative-model clients for tool decisions and
// analysis enhancement.
package llm

import (
	"context"
)

// Client defines the single-shot generation interface.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// GenerateResponse sends a prompt and returns the response text.
	GenerateResponse(ctx context.Context, prompt string) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure implementations satisfy Client at compile time.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
)
