// Package tools provides the MCP tool surface over the BigQuery warehouse.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	agenttools "github.com/dataquill/bq-agent/pkg/tools"
	"github.com/dataquill/bq-agent/pkg/warehouse"
)

// BigQueryToolDeps contains dependencies for the warehouse tools.
type BigQueryToolDeps struct {
	Registry *agenttools.Registry
	Logger   *zap.Logger
}

// RegisterBigQueryTools registers the five warehouse tools. Every invocation
// routes through the shared registry so MCP clients get the same argument
// normalization and SQL guards as the agent's own dispatch loop.
func RegisterBigQueryTools(s *server.MCPServer, deps *BigQueryToolDeps) {
	registerListDatasetIDsTool(s, deps)
	registerGetDatasetInfoTool(s, deps)
	registerListTableIDsTool(s, deps)
	registerGetTableInfoTool(s, deps)
	registerExecuteSQLTool(s, deps)
}

func registerListDatasetIDsTool(s *server.MCPServer, deps *BigQueryToolDeps) {
	tool := mcp.NewTool(
		agenttools.ToolListDatasetIDs,
		mcp.WithDescription("Lists all dataset IDs in the project"),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, toolHandler(deps, agenttools.ToolListDatasetIDs))
}

func registerGetDatasetInfoTool(s *server.MCPServer, deps *BigQueryToolDeps) {
	tool := mcp.NewTool(
		agenttools.ToolGetDatasetInfo,
		mcp.WithDescription("Gets information about a specific dataset"),
		mcp.WithString(
			"dataset_id",
			mcp.Required(),
			mcp.Description("Dataset ID to inspect"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, toolHandler(deps, agenttools.ToolGetDatasetInfo))
}

func registerListTableIDsTool(s *server.MCPServer, deps *BigQueryToolDeps) {
	tool := mcp.NewTool(
		agenttools.ToolListTableIDs,
		mcp.WithDescription("Lists all table IDs in a dataset"),
		mcp.WithString(
			"dataset_id",
			mcp.Required(),
			mcp.Description("Dataset ID to list tables from"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, toolHandler(deps, agenttools.ToolListTableIDs))
}

func registerGetTableInfoTool(s *server.MCPServer, deps *BigQueryToolDeps) {
	tool := mcp.NewTool(
		agenttools.ToolGetTableInfo,
		mcp.WithDescription("Gets information about a specific table, including row and column counts"),
		mcp.WithString(
			"dataset_id",
			mcp.Required(),
			mcp.Description("Dataset the table lives in"),
		),
		mcp.WithString(
			"table_id",
			mcp.Required(),
			mcp.Description("Table ID to inspect"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, toolHandler(deps, agenttools.ToolGetTableInfo))
}

func registerExecuteSQLTool(s *server.MCPServer, deps *BigQueryToolDeps) {
	tool := mcp.NewTool(
		agenttools.ToolExecuteSQL,
		mcp.WithDescription("Executes a read-only SQL query and returns the result rows"),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.Description("BigQuery SQL to execute; only SELECT statements are permitted"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, toolHandler(deps, agenttools.ToolExecuteSQL))
}

// toolHandler dispatches one MCP call through the shared registry and
// marshals the result as JSON text.
func toolHandler(deps *BigQueryToolDeps, toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		results := deps.Registry.Dispatch(ctx, []agenttools.Call{
			{Name: toolName, Arguments: req.GetArguments()},
		})

		value := results[0].Value

		if errMap, ok := value.(map[string]any); ok {
			if msg, failed := errMap["error"]; failed {
				deps.Logger.Warn("mcp tool call failed",
					zap.String("tool", toolName),
					zap.Any("error", msg))
				return mcp.NewToolResultError(fmt.Sprintf("%v", msg)), nil
			}
		}

		payload, err := json.Marshal(jsonValue(value))
		if err != nil {
			return nil, fmt.Errorf("marshal %s result: %w", toolName, err)
		}

		return mcp.NewToolResultText(string(payload)), nil
	}
}

// jsonValue flattens query results to their row list, matching what SQL
// clients expect from an execute_sql tool.
func jsonValue(value any) any {
	if result, ok := value.(*warehouse.QueryResult); ok {
		return result.Rows
	}
	return value
}
