package warehouse

import "context"

// QueryResult holds rows returned by a query along with the column order
// reported by the driver. Rows are keyed by column name; Columns preserves
// the order in which the warehouse returned them.
type QueryResult struct {
	Columns []string
	Rows    []map[string]any
}

// RowCount returns the number of rows in the result.
func (r *QueryResult) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Client provides read access to a BigQuery project: dataset and table
// metadata plus arbitrary query execution.
type Client interface {
	// ListDatasets returns the dataset IDs in the configured project.
	ListDatasets(ctx context.Context) ([]string, error)

	// GetDatasetInfo returns metadata for a single dataset.
	GetDatasetInfo(ctx context.Context, datasetID string) (map[string]any, error)

	// ListTables returns the table IDs in a dataset.
	ListTables(ctx context.Context, datasetID string) ([]string, error)

	// GetTableInfo returns metadata for a single table, including row and
	// column counts.
	GetTableInfo(ctx context.Context, datasetID, tableID string) (map[string]any, error)

	// ExecuteQuery runs a SQL query and returns all result rows.
	ExecuteQuery(ctx context.Context, sqlQuery string) (*QueryResult, error)

	// Close releases the underlying connection.
	Close() error
}
