package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/apperrors"
	"github.com/dataquill/bq-agent/pkg/llm"
	"github.com/dataquill/bq-agent/pkg/prompts"
	"github.com/dataquill/bq-agent/pkg/tools"
)

// DecisionEngine asks the model which warehouse tools answer a user query.
type DecisionEngine interface {
	// Decide returns the tool-call plan for a query. An empty plan is a
	// valid answer meaning no tool use is needed.
	Decide(ctx context.Context, userQuery string) ([]tools.Call, error)
}

// DecisionParseError carries the raw model text that failed to parse as a
// tool-call plan, so callers can surface it instead of crashing.
type DecisionParseError struct {
	Raw string
	Err error
}

func (e *DecisionParseError) Error() string {
	return fmt.Sprintf("decision response is not valid JSON: %v", e.Err)
}

func (e *DecisionParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, apperrors.ErrDecisionParse) match.
func (e *DecisionParseError) Is(target error) bool {
	return target == apperrors.ErrDecisionParse
}

type decisionEngine struct {
	client llm.Client
	schema prompts.SchemaContext
	logger *zap.Logger
}

// NewDecisionEngine creates a decision engine over a model client.
func NewDecisionEngine(client llm.Client, schema prompts.SchemaContext, logger *zap.Logger) DecisionEngine {
	return &decisionEngine{
		client: client,
		schema: schema,
		logger: logger.Named("decision"),
	}
}

// Decide builds the tool-selection prompt, calls the model once, and parses
// the JSON plan out of its response. No retry: a single failure degrades to
// the caller's fallback path.
func (e *decisionEngine) Decide(ctx context.Context, userQuery string) ([]tools.Call, error) {
	prompt := prompts.BuildDecisionPrompt(userQuery, e.schema)

	response, err := e.client.GenerateResponse(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("tool decision call: %w", err)
	}

	jsonText := strings.TrimSpace(llm.ExtractJSON(strings.TrimSpace(response)))

	var decision tools.Decision
	if err := json.Unmarshal([]byte(jsonText), &decision); err != nil {
		e.logger.Warn("decision response did not parse as JSON",
			zap.Error(err),
			zap.Int("response_length", len(response)))
		return nil, &DecisionParseError{Raw: jsonText, Err: err}
	}

	e.logger.Debug("tool plan decided",
		zap.Int("tool_calls", len(decision.ToolCalls)))

	return decision.ToolCalls, nil
}

// Ensure decisionEngine implements DecisionEngine at compile time.
var _ DecisionEngine = (*decisionEngine)(nil)
