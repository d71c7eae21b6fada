// Package tools defines the fixed warehouse tool surface the decision engine
// can invoke, argument normalization for model-produced calls, and the
// dispatch loop that executes a plan.
package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/apperrors"
	"github.com/dataquill/bq-agent/pkg/audit"
	sqlguard "github.com/dataquill/bq-agent/pkg/sql"
	"github.com/dataquill/bq-agent/pkg/warehouse"
)

// Tool names the decision engine may select.
const (
	ToolListDatasetIDs = "list_dataset_ids"
	ToolGetDatasetInfo = "get_dataset_info"
	ToolListTableIDs   = "list_table_ids"
	ToolGetTableInfo   = "get_table_info"
	ToolExecuteSQL     = "execute_sql"
)

// Call is a single tool invocation requested by the model.
type Call struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Decision is the JSON plan the model returns from the tool-selection call.
type Decision struct {
	ToolCalls []Call `json:"tool_calls"`
}

// Result pairs a tool name with what it produced. Value holds the tool's
// native output, or a map with an "error" key when execution failed.
type Result struct {
	Tool  string
	Value any
}

// Handler executes one tool against already-normalized arguments.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Registry holds the fixed set of warehouse tools and executes plans against
// them. Each dispatch screens model-produced arguments before touching the
// warehouse.
type Registry struct {
	handlers map[string]Handler
	auditor  *audit.SecurityAuditor
	logger   *zap.Logger
}

// NewRegistry builds the five-tool registry over a warehouse client.
func NewRegistry(wh warehouse.Client, auditor *audit.SecurityAuditor, logger *zap.Logger) *Registry {
	r := &Registry{
		auditor: auditor,
		logger:  logger.Named("tools"),
	}

	r.handlers = map[string]Handler{
		ToolListDatasetIDs: func(ctx context.Context, _ map[string]any) (any, error) {
			return wh.ListDatasets(ctx)
		},
		ToolGetDatasetInfo: func(ctx context.Context, args map[string]any) (any, error) {
			datasetID, err := stringArg(args, "dataset_id")
			if err != nil {
				return nil, err
			}
			return wh.GetDatasetInfo(ctx, datasetID)
		},
		ToolListTableIDs: func(ctx context.Context, args map[string]any) (any, error) {
			datasetID, err := stringArg(args, "dataset_id")
			if err != nil {
				return nil, err
			}
			return wh.ListTables(ctx, datasetID)
		},
		ToolGetTableInfo: func(ctx context.Context, args map[string]any) (any, error) {
			datasetID, err := stringArg(args, "dataset_id")
			if err != nil {
				return nil, err
			}
			tableID, err := stringArg(args, "table_id")
			if err != nil {
				return nil, err
			}
			return wh.GetTableInfo(ctx, datasetID, tableID)
		},
		ToolExecuteSQL: func(ctx context.Context, args map[string]any) (any, error) {
			query, err := stringArg(args, "query")
			if err != nil {
				return nil, err
			}
			return wh.ExecuteQuery(ctx, query)
		},
	}

	return r
}

// Dispatch executes a plan in order and returns one result per call. A
// failing call never aborts the batch: its error is captured in the result
// value and execution moves on. An empty plan returns an empty slice.
func (r *Registry) Dispatch(ctx context.Context, calls []Call) []Result {
	requestID := uuid.New()
	results := make([]Result, 0, len(calls))

	for _, call := range calls {
		results = append(results, Result{
			Tool:  call.Name,
			Value: r.execute(ctx, requestID, call),
		})
	}

	return results
}

// execute runs one call through normalization, screening and its handler.
func (r *Registry) execute(ctx context.Context, requestID uuid.UUID, call Call) any {
	handler, ok := r.handlers[call.Name]
	if !ok {
		return map[string]any{"error": fmt.Sprintf("Unknown tool: %s", call.Name)}
	}

	args, err := NormalizeArguments(call.Name, call.Arguments)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}

	if err := r.screen(requestID, call.Name, args); err != nil {
		return map[string]any{"error": err.Error()}
	}

	r.logger.Debug("executing tool",
		zap.String("tool", call.Name),
		zap.String("request_id", requestID.String()))

	value, err := handler(ctx, args)
	if err != nil {
		r.logger.Warn("tool execution failed",
			zap.String("tool", call.Name),
			zap.Error(err))
		return map[string]any{"error": err.Error()}
	}

	return value
}

// screen applies security checks to normalized arguments. Identifier
// arguments are screened with libinjection; SQL queries get the read-only
// guard instead, since a query is expected to look like SQL.
func (r *Registry) screen(requestID uuid.UUID, toolName string, args map[string]any) error {
	if toolName == ToolExecuteSQL {
		query, _ := args["query"].(string)
		if result := sqlguard.ValidateReadOnly(query); result.Error != nil {
			if r.auditor != nil {
				r.auditor.LogQueryBlocked(requestID, audit.QueryBlockedDetails{
					Query:  query,
					Reason: result.Error.Error(),
				})
			}
			return fmt.Errorf("query rejected: %w", result.Error)
		} else if result.NormalizedSQL != "" {
			args["query"] = result.NormalizedSQL
		}
		return nil
	}

	for _, finding := range sqlguard.CheckAllArguments(args) {
		if r.auditor != nil {
			r.auditor.LogInjectionAttempt(requestID, audit.SQLInjectionDetails{
				ToolName:    toolName,
				ArgName:     finding.ArgName,
				ArgValue:    fmt.Sprintf("%v", finding.ArgValue),
				Fingerprint: finding.Fingerprint,
			})
		}
		return fmt.Errorf("argument %s rejected: possible SQL injection", finding.ArgName)
	}

	return nil
}

// stringArg extracts a required string argument.
func stringArg(args map[string]any, name string) (string, error) {
	value, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", apperrors.ErrMissingArgument, name)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("argument %s must be a string, got %T", name, value)
	}
	return s, nil
}
