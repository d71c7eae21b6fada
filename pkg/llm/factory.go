package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/apperrors"
	"github.com/dataquill/bq-agent/pkg/config"
)

// NewFromConfig constructs the LLM client selected by configuration.
// Returns apperrors.ErrModelUnavailable when the selected provider has no API
// key, so callers can degrade to the deterministic fallback path.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (Client, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		if cfg.LLM.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not configured: %w", apperrors.ErrModelUnavailable)
		}
		return NewOpenAIClient(&Config{
			Endpoint: cfg.LLM.OpenAI.BaseURL,
			Model:    cfg.LLM.OpenAI.Model,
			APIKey:   cfg.LLM.OpenAI.APIKey,
		}, logger)

	case config.ProviderAnthropic:
		if cfg.LLM.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not configured: %w", apperrors.ErrModelUnavailable)
		}
		return NewAnthropicClient(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model, logger)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLM.Provider)
	}
}
