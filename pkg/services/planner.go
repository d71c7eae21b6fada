package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/config"
	"github.com/dataquill/bq-agent/pkg/llm"
	"github.com/dataquill/bq-agent/pkg/prompts"
)

// Planner is the outer relay/enhance layer. Every query first runs through
// the agent; queries matching the enhancement vocabulary additionally get a
// second model call that interprets the formatted result.
type Planner struct {
	agent  *Agent
	client llm.Client // nil when no model credential is configured
	cfg    *config.Config
	logger *zap.Logger
}

// NewPlanner creates the relay layer. client may be nil; enhancement is then
// replaced by a configuration note.
func NewPlanner(agent *Agent, client llm.Client, cfg *config.Config, logger *zap.Logger) *Planner {
	return &Planner{
		agent:  agent,
		client: client,
		cfg:    cfg,
		logger: logger.Named("planner"),
	}
}

// Answer runs a query end to end, enhancing the response when the query
// calls for interpretation. A failed enhancement never discards the
// first-stage result.
func (p *Planner) Answer(ctx context.Context, userQuery string) string {
	response := p.agent.Run(ctx, userQuery)

	if !NeedsEnhancement(userQuery) {
		return response
	}

	if p.client == nil || !p.cfg.HasModelCredentials() {
		return p.credentialNote() + response
	}

	p.logger.Debug("enhancing response", zap.String("model", p.client.GetModel()))

	enhanced, err := p.client.GenerateResponse(ctx, prompts.BuildAnalystPrompt(userQuery, response))
	if err != nil {
		p.logger.Warn("enhancement call failed", zap.Error(err))
		return fmt.Sprintf("## Original Response\n%s\n\n## Analysis\nUnable to generate enhanced analysis due to: %s\n\nThe raw data from the SQL query is shown above.\n", response, err)
	}

	return fmt.Sprintf("## Original Response\n%s\n\n## Enhanced Analysis\n%s\n", response, enhanced)
}

// credentialNote names the missing key for the configured provider.
func (p *Planner) credentialNote() string {
	key := "OPENAI_API_KEY"
	if p.cfg.LLM.Provider == config.ProviderAnthropic {
		key = "ANTHROPIC_API_KEY"
	}
	return fmt.Sprintf("Note: For detailed analysis and insights, please configure your %s in the .env file.\n\n", key)
}
