package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/audit"
	agenttools "github.com/dataquill/bq-agent/pkg/tools"
	"github.com/dataquill/bq-agent/pkg/warehouse"
)

type callResponse struct {
	Result struct {
		IsError bool `json:"isError"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"result"`
}

func newTestServer(t *testing.T, wh warehouse.Client) *server.MCPServer {
	t.Helper()

	logger := zap.NewNop()
	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))

	RegisterBigQueryTools(mcpServer, &BigQueryToolDeps{
		Registry: agenttools.NewRegistry(wh, audit.NewSecurityAuditor(logger), logger),
		Logger:   logger,
	})

	return mcpServer
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) callResponse {
	t.Helper()

	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal arguments: %v", err)
	}

	request := fmt.Sprintf(`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"%s","arguments":%s},"id":1}`, name, argsJSON)
	result := s.HandleMessage(context.Background(), []byte(request))

	resultBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response callResponse
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return response
}

func TestBigQueryToolsListed(t *testing.T) {
	s := newTestServer(t, warehouse.NewMockClient())

	result := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))

	resultBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	registered := make(map[string]bool)
	for _, tool := range response.Result.Tools {
		registered[tool.Name] = true
	}

	for _, name := range []string{"list_dataset_ids", "get_dataset_info", "list_table_ids", "get_table_info", "execute_sql"} {
		if !registered[name] {
			t.Errorf("tool %q not found in tools/list response", name)
		}
	}
}

func TestListDatasetIDsTool(t *testing.T) {
	wh := warehouse.NewMockClient()
	wh.ListDatasetsFunc = func(ctx context.Context) ([]string, error) {
		return []string{"market_data", "reference"}, nil
	}

	response := callTool(t, newTestServer(t, wh), "list_dataset_ids", map[string]any{})

	if len(response.Result.Content) == 0 {
		t.Fatal("expected content in response")
	}

	var datasets []string
	if err := json.Unmarshal([]byte(response.Result.Content[0].Text), &datasets); err != nil {
		t.Fatalf("failed to unmarshal datasets: %v", err)
	}
	if len(datasets) != 2 || datasets[0] != "market_data" {
		t.Errorf("datasets = %v", datasets)
	}
}

func TestExecuteSQLToolReturnsRows(t *testing.T) {
	wh := warehouse.NewMockClient()
	wh.ExecuteQueryFunc = func(ctx context.Context, sqlQuery string) (*warehouse.QueryResult, error) {
		return &warehouse.QueryResult{
			Columns: []string{"Ticker"},
			Rows:    []map[string]any{{"Ticker": "TSLA"}},
		}, nil
	}

	response := callTool(t, newTestServer(t, wh), "execute_sql", map[string]any{"query": "SELECT Ticker FROM `p.d.t`"})

	if len(response.Result.Content) == 0 {
		t.Fatal("expected content in response")
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(response.Result.Content[0].Text), &rows); err != nil {
		t.Fatalf("failed to unmarshal rows: %v", err)
	}
	if len(rows) != 1 || rows[0]["Ticker"] != "TSLA" {
		t.Errorf("rows = %v", rows)
	}
}

func TestExecuteSQLToolRejectsWrites(t *testing.T) {
	wh := warehouse.NewMockClient()

	response := callTool(t, newTestServer(t, wh), "execute_sql", map[string]any{"query": "DROP TABLE `p.d.t`"})

	if !response.Result.IsError {
		t.Error("expected error result for non-SELECT query")
	}
	if wh.ExecuteQueryCalls != 0 {
		t.Errorf("warehouse reached despite rejection: %d calls", wh.ExecuteQueryCalls)
	}
}

func TestGetTableInfoToolDropsInventedArguments(t *testing.T) {
	wh := warehouse.NewMockClient()
	wh.GetTableInfoFunc = func(ctx context.Context, datasetID, tableID string) (map[string]any, error) {
		return map[string]any{"table_id": tableID, "num_rows": 93, "num_columns": 17}, nil
	}

	response := callTool(t, newTestServer(t, wh), "get_table_info", map[string]any{
		"dataset_id": "market_data",
		"table_id":   "stocks",
		"project_id": "should-be-ignored",
	})

	if response.Result.IsError {
		t.Fatalf("unexpected error result: %+v", response.Result)
	}

	var info map[string]any
	if err := json.Unmarshal([]byte(response.Result.Content[0].Text), &info); err != nil {
		t.Fatalf("failed to unmarshal info: %v", err)
	}
	if info["table_id"] != "stocks" {
		t.Errorf("info = %v", info)
	}
}
