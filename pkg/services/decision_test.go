package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/apperrors"
	"github.com/dataquill/bq-agent/pkg/llm"
	"github.com/dataquill/bq-agent/pkg/prompts"
)

var decisionSchema = prompts.SchemaContext{
	ProjectID: "my-project",
	DatasetID: "market_data",
	TableID:   "stocks",
}

func TestDecideParsesToolPlan(t *testing.T) {
	client := llm.NewMockClient()
	client.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return "```json\n{\"tool_calls\": [{\"name\": \"list_dataset_ids\", \"arguments\": {}}, {\"name\": \"execute_sql\", \"arguments\": {\"query\": \"SELECT 1\"}}]}\n```", nil
	}

	engine := NewDecisionEngine(client, decisionSchema, zap.NewNop())

	calls, err := engine.Decide(context.Background(), "What datasets do I have?")
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "list_dataset_ids", calls[0].Name)
	assert.Equal(t, "execute_sql", calls[1].Name)
	assert.Equal(t, "SELECT 1", calls[1].Arguments["query"])

	// The prompt must carry the user question to the model.
	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "What datasets do I have?")
}

func TestDecideEmptyPlan(t *testing.T) {
	client := llm.NewMockClient()
	client.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return `{"tool_calls": []}`, nil
	}

	engine := NewDecisionEngine(client, decisionSchema, zap.NewNop())

	calls, err := engine.Decide(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestDecideParseError(t *testing.T) {
	client := llm.NewMockClient()
	client.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return "I think you should use list_dataset_ids", nil
	}

	engine := NewDecisionEngine(client, decisionSchema, zap.NewNop())

	_, err := engine.Decide(context.Background(), "list datasets")
	require.Error(t, err)

	var parseErr *DecisionParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "I think you should use list_dataset_ids", parseErr.Raw)
	assert.True(t, errors.Is(err, apperrors.ErrDecisionParse))
}

func TestDecidePropagatesModelFailure(t *testing.T) {
	client := llm.NewMockClient()
	client.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", llm.NewError(llm.ErrorTypeAuth, "invalid API key", nil)
	}

	engine := NewDecisionEngine(client, decisionSchema, zap.NewNop())

	_, err := engine.Decide(context.Background(), "list datasets")
	require.Error(t, err)
	assert.True(t, llm.IsUnavailable(err))

	var parseErr *DecisionParseError
	assert.False(t, errors.As(err, &parseErr))
}
