package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/logging"
	"github.com/dataquill/bq-agent/pkg/tools"
)

// Agent runs one user query end to end: decide which tools to use, dispatch
// them, and format the results. When the model is unavailable the
// deterministic fallback path answers instead.
type Agent struct {
	engine    DecisionEngine // nil when no model credential is configured
	registry  *tools.Registry
	formatter *ResultFormatter
	fallback  *FallbackResponder
	logger    *zap.Logger
}

// NewAgent wires the query pipeline. engine may be nil; every query then
// takes the fallback path.
func NewAgent(
	engine DecisionEngine,
	registry *tools.Registry,
	formatter *ResultFormatter,
	fallback *FallbackResponder,
	logger *zap.Logger,
) *Agent {
	return &Agent{
		engine:    engine,
		registry:  registry,
		formatter: formatter,
		fallback:  fallback,
		logger:    logger.Named("agent"),
	}
}

// Run answers a user query. It never returns an error: any failure that
// escapes the inner pipeline is converted into a user-visible message.
func (a *Agent) Run(ctx context.Context, userQuery string) string {
	response, err := a.run(ctx, userQuery)
	if err != nil {
		a.logger.Error("agent run failed", zap.String("error", logging.SanitizeError(err)))
		return fmt.Sprintf("Error running agent: %s", err)
	}
	return response
}

func (a *Agent) run(ctx context.Context, userQuery string) (string, error) {
	if a.engine != nil {
		calls, err := a.engine.Decide(ctx, userQuery)
		switch {
		case err == nil:
			results := a.registry.Dispatch(ctx, calls)
			return a.formatter.Format(userQuery, results), nil

		case isParseError(err):
			var parseErr *DecisionParseError
			errors.As(err, &parseErr)
			return fmt.Sprintf("LLM Response (JSON parsing error): %s\nError: %v", parseErr.Raw, parseErr.Err), nil

		default:
			// Model unreachable or misbehaving: degrade to the
			// deterministic path, same as having no credential.
			a.logger.Warn("decision call failed, using fallback", zap.Error(err))
		}
	}

	return a.fallback.Respond(ctx, userQuery)
}

func isParseError(err error) bool {
	var parseErr *DecisionParseError
	return errors.As(err, &parseErr)
}
