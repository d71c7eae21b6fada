package services

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/config"
	"github.com/dataquill/bq-agent/pkg/llm"
	"github.com/dataquill/bq-agent/pkg/warehouse"
)

func plannerConfig(apiKey string) *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider: config.ProviderOpenAI,
			OpenAI:   config.OpenAIConfig{APIKey: apiKey, Model: "gpt-4-turbo"},
		},
	}
}

func TestPlannerRelaysSimpleQueries(t *testing.T) {
	client := llm.NewMockClient()
	client.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return `{"tool_calls": []}`, nil
	}

	agent := newTestAgent(client, warehouse.NewMockClient())
	planner := NewPlanner(agent, client, plannerConfig("sk-test"), zap.NewNop())

	got := planner.Answer(context.Background(), "show me the rows")

	if strings.Contains(got, "## Original Response") {
		t.Errorf("simple query must not be enhanced: %q", got)
	}
	// One decision call only, no enhancement call.
	if client.GenerateResponseCalls != 1 {
		t.Errorf("GenerateResponseCalls = %d, want 1", client.GenerateResponseCalls)
	}
}

func TestPlannerEnhancesAnalyticalQueries(t *testing.T) {
	client := llm.NewMockClient()
	client.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "expert data analyst") {
			return "The data shows strong sector concentration.", nil
		}
		return `{"tool_calls": []}`, nil
	}

	agent := newTestAgent(client, warehouse.NewMockClient())
	planner := NewPlanner(agent, client, plannerConfig("sk-test"), zap.NewNop())

	got := planner.Answer(context.Background(), "analyze the sector distribution")

	if !strings.Contains(got, "## Original Response\n") {
		t.Errorf("missing original response section: %q", got)
	}
	if !strings.Contains(got, "## Enhanced Analysis\nThe data shows strong sector concentration.") {
		t.Errorf("missing enhanced section: %q", got)
	}
	if client.GenerateResponseCalls != 2 {
		t.Errorf("GenerateResponseCalls = %d, want 2", client.GenerateResponseCalls)
	}
}

func TestPlannerEnhancementFailurePreservesOriginal(t *testing.T) {
	client := llm.NewMockClient()
	client.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "expert data analyst") {
			return "", llm.NewError(llm.ErrorTypeQuota, "rate limit exceeded", nil)
		}
		return `{"tool_calls": []}`, nil
	}

	agent := newTestAgent(client, warehouse.NewMockClient())
	planner := NewPlanner(agent, client, plannerConfig("sk-test"), zap.NewNop())

	got := planner.Answer(context.Background(), "analyze the data")

	if !strings.Contains(got, "## Original Response\n") {
		t.Errorf("original response dropped: %q", got)
	}
	if !strings.Contains(got, "## Analysis\nUnable to generate enhanced analysis due to: ") {
		t.Errorf("missing failure note: %q", got)
	}
	if !strings.Contains(got, "The raw data from the SQL query is shown above.") {
		t.Errorf("missing raw-data note: %q", got)
	}
}

func TestPlannerNoCredentialsNote(t *testing.T) {
	agent := newTestAgent(nil, warehouse.NewMockClient())
	planner := NewPlanner(agent, nil, plannerConfig(""), zap.NewNop())

	got := planner.Answer(context.Background(), "analyze the data")

	if !strings.HasPrefix(got, "Note: For detailed analysis and insights, please configure your OPENAI_API_KEY in the .env file.\n\n") {
		t.Errorf("missing credential note: %q", got)
	}
}

func TestPlannerAnthropicCredentialNote(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLMConfig{Provider: config.ProviderAnthropic},
	}

	agent := newTestAgent(nil, warehouse.NewMockClient())
	planner := NewPlanner(agent, nil, cfg, zap.NewNop())

	got := planner.Answer(context.Background(), "analyze the data")

	if !strings.Contains(got, "ANTHROPIC_API_KEY") {
		t.Errorf("note must name the anthropic key: %q", got)
	}
}
