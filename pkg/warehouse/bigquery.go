package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/viant/bigquery"
	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/config"
	"github.com/dataquill/bq-agent/pkg/logging"
)

// identifierPattern matches valid BigQuery dataset and table identifiers.
// Dashes are allowed because table IDs in some public datasets carry them.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_$-]+$`)

// BigQuery implements Client on top of the viant/bigquery database/sql driver.
type BigQuery struct {
	db        *sql.DB
	projectID string
	logger    *zap.Logger
}

// NewBigQuery opens a connection to the configured project. The driver
// resolves application-default credentials unless a service-account key file
// is configured.
func NewBigQuery(cfg *config.BigQueryConfig, logger *zap.Logger) (*BigQuery, error) {
	db, err := sql.Open("bigquery", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open bigquery connection: %w", err)
	}

	return &BigQuery{
		db:        db,
		projectID: cfg.ProjectID,
		logger:    logger.Named("warehouse"),
	}, nil
}

// buildDSN assembles the driver connection string.
func buildDSN(cfg *config.BigQueryConfig) string {
	dsn := fmt.Sprintf("bigquery://%s/%s", cfg.ProjectID, cfg.DatasetID)
	if cfg.CredentialsFile != "" {
		dsn += "?credURL=" + url.QueryEscape(cfg.CredentialsFile)
	}
	return dsn
}

// ListDatasets returns the dataset IDs in the project.
func (b *BigQuery) ListDatasets(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT schema_name FROM `%s`.INFORMATION_SCHEMA.SCHEMATA ORDER BY schema_name",
		b.projectID,
	)

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan dataset id: %w", err)
		}
		datasets = append(datasets, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}

	return datasets, nil
}

// GetDatasetInfo returns location, creation time and description for a dataset.
func (b *BigQuery) GetDatasetInfo(ctx context.Context, datasetID string) (map[string]any, error) {
	if err := validateIdentifier("dataset_id", datasetID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT s.schema_name, s.location, CAST(s.creation_time AS STRING) AS created,"+
			" (SELECT o.option_value FROM `%s`.INFORMATION_SCHEMA.SCHEMATA_OPTIONS o"+
			"   WHERE o.schema_name = s.schema_name AND o.option_name = 'description') AS description"+
			" FROM `%s`.INFORMATION_SCHEMA.SCHEMATA s WHERE s.schema_name = '%s'",
		b.projectID, b.projectID, datasetID,
	)

	row := b.db.QueryRowContext(ctx, query)

	var name, location, created string
	var description sql.NullString
	if err := row.Scan(&name, &location, &created, &description); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("dataset not found: %s", datasetID)
		}
		return nil, fmt.Errorf("get dataset info: %w", err)
	}

	info := map[string]any{
		"dataset_id": name,
		"location":   location,
		"created":    created,
	}
	if description.Valid {
		// Option values come back as quoted string literals.
		info["description"] = strings.Trim(description.String, `"`)
	}

	return info, nil
}

// ListTables returns the table IDs in a dataset.
func (b *BigQuery) ListTables(ctx context.Context, datasetID string) ([]string, error) {
	if err := validateIdentifier("dataset_id", datasetID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT table_name FROM `%s.%s`.INFORMATION_SCHEMA.TABLES ORDER BY table_name",
		b.projectID, datasetID,
	)

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tables in %s: %w", datasetID, err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table id: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// GetTableInfo returns row and column counts for a table.
func (b *BigQuery) GetTableInfo(ctx context.Context, datasetID, tableID string) (map[string]any, error) {
	if err := validateIdentifier("dataset_id", datasetID); err != nil {
		return nil, err
	}
	if err := validateIdentifier("table_id", tableID); err != nil {
		return nil, err
	}

	rowQuery := fmt.Sprintf(
		"SELECT row_count FROM `%s.%s`.__TABLES__ WHERE table_id = '%s'",
		b.projectID, datasetID, tableID,
	)

	var numRows int64
	if err := b.db.QueryRowContext(ctx, rowQuery).Scan(&numRows); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("table not found: %s.%s", datasetID, tableID)
		}
		return nil, fmt.Errorf("get table row count: %w", err)
	}

	colQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM `%s.%s`.INFORMATION_SCHEMA.COLUMNS WHERE table_name = '%s'",
		b.projectID, datasetID, tableID,
	)

	var numColumns int64
	if err := b.db.QueryRowContext(ctx, colQuery).Scan(&numColumns); err != nil {
		return nil, fmt.Errorf("get table column count: %w", err)
	}

	return map[string]any{
		"table_id":    tableID,
		"num_rows":    numRows,
		"num_columns": numColumns,
	}, nil
}

// ExecuteQuery runs an arbitrary SQL query and collects every row. Column
// order from the driver is preserved in the result.
func (b *BigQuery) ExecuteQuery(ctx context.Context, sqlQuery string) (*QueryResult, error) {
	start := time.Now()

	rows, err := b.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read result columns: %w", err)
	}

	result := &QueryResult{
		Columns: columns,
		Rows:    make([]map[string]any, 0),
	}

	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = coerceValue(values[i])
		}
		result.Rows = append(result.Rows, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}

	b.logger.Debug("query executed",
		zap.String("query", logging.SanitizeQuery(sqlQuery)),
		zap.Int("rows", len(result.Rows)),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// Close releases the underlying connection pool.
func (b *BigQuery) Close() error {
	return b.db.Close()
}

// coerceValue normalizes driver values into the small set of types the rest
// of the agent renders: nil, bool, numbers and strings.
func coerceValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

// validateIdentifier rejects dataset and table IDs that could break out of
// the backtick-quoted position they are interpolated into.
func validateIdentifier(argName, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", argName)
	}
	if !identifierPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", argName, value)
	}
	return nil
}

// Ensure BigQuery implements Client at compile time.
var _ Client = (*BigQuery)(nil)
