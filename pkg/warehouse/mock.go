package warehouse

import "context"

// MockClient is a test double for Client using function fields for behavior
// injection, with call counters for interaction assertions.
type MockClient struct {
	ListDatasetsFunc   func(ctx context.Context) ([]string, error)
	GetDatasetInfoFunc func(ctx context.Context, datasetID string) (map[string]any, error)
	ListTablesFunc     func(ctx context.Context, datasetID string) ([]string, error)
	GetTableInfoFunc   func(ctx context.Context, datasetID, tableID string) (map[string]any, error)
	ExecuteQueryFunc   func(ctx context.Context, sqlQuery string) (*QueryResult, error)

	ListDatasetsCalls   int
	GetDatasetInfoCalls int
	ListTablesCalls     int
	GetTableInfoCalls   int
	ExecuteQueryCalls   int

	// Queries records every SQL string passed to ExecuteQuery.
	Queries []string
}

// NewMockClient creates a mock with empty defaults.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) ListDatasets(ctx context.Context) ([]string, error) {
	m.ListDatasetsCalls++
	if m.ListDatasetsFunc != nil {
		return m.ListDatasetsFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockClient) GetDatasetInfo(ctx context.Context, datasetID string) (map[string]any, error) {
	m.GetDatasetInfoCalls++
	if m.GetDatasetInfoFunc != nil {
		return m.GetDatasetInfoFunc(ctx, datasetID)
	}
	return map[string]any{"dataset_id": datasetID}, nil
}

func (m *MockClient) ListTables(ctx context.Context, datasetID string) ([]string, error) {
	m.ListTablesCalls++
	if m.ListTablesFunc != nil {
		return m.ListTablesFunc(ctx, datasetID)
	}
	return []string{}, nil
}

func (m *MockClient) GetTableInfo(ctx context.Context, datasetID, tableID string) (map[string]any, error) {
	m.GetTableInfoCalls++
	if m.GetTableInfoFunc != nil {
		return m.GetTableInfoFunc(ctx, datasetID, tableID)
	}
	return map[string]any{"table_id": tableID}, nil
}

func (m *MockClient) ExecuteQuery(ctx context.Context, sqlQuery string) (*QueryResult, error) {
	m.ExecuteQueryCalls++
	m.Queries = append(m.Queries, sqlQuery)
	if m.ExecuteQueryFunc != nil {
		return m.ExecuteQueryFunc(ctx, sqlQuery)
	}
	return &QueryResult{Columns: []string{}, Rows: []map[string]any{}}, nil
}

func (m *MockClient) Close() error { return nil }

// Ensure MockClient implements Client at compile time.
var _ Client = (*MockClient)(nil)
