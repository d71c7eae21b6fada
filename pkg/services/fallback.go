package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/markdown"
	"github.com/dataquill/bq-agent/pkg/prompts"
	"github.com/dataquill/bq-agent/pkg/warehouse"
)

// FallbackResponder answers a fixed set of literal intents without any model
// call. It serves queries when no model credential is configured or the
// decision call failed.
type FallbackResponder struct {
	wh     warehouse.Client
	schema prompts.SchemaContext
	logger *zap.Logger
}

// NewFallbackResponder creates the deterministic responder.
func NewFallbackResponder(wh warehouse.Client, schema prompts.SchemaContext, logger *zap.Logger) *FallbackResponder {
	return &FallbackResponder{
		wh:     wh,
		schema: schema,
		logger: logger.Named("fallback"),
	}
}

// Respond matches the lowercased query against the known intents: list
// datasets, show sample rows, and help. Anything else gets a static
// configuration hint.
func (f *FallbackResponder) Respond(ctx context.Context, userQuery string) (string, error) {
	q := strings.ToLower(userQuery)

	switch {
	case containsAny(q, "dataset") && containsAny(q, "what", "list", "have"):
		return f.listDatasets(ctx)

	case containsAny(q, "show", "display", "get") && containsAny(q, "row", "data", "record"):
		return f.sampleRows(ctx)

	case containsAny(q, "help", "what can"):
		return f.helpText(userQuery), nil

	default:
		return fmt.Sprintf("For more intelligent analysis of your query: '%s', \n"+
			"please configure your LLM API key in the .env file. \n"+
			"This will enable the LLM to understand your question and generate appropriate SQL queries.\n"+
			"Currently, I can help with basic dataset listing. For advanced analysis, LLM configuration is required.",
			userQuery), nil
	}
}

func (f *FallbackResponder) listDatasets(ctx context.Context) (string, error) {
	datasets, err := f.wh.ListDatasets(ctx)
	if err != nil {
		return "", fmt.Errorf("list datasets: %w", err)
	}

	if len(datasets) == 0 {
		return "Here are your datasets: No datasets found", nil
	}
	return "Here are your datasets: " + strings.Join(datasets, ", "), nil
}

func (f *FallbackResponder) sampleRows(ctx context.Context) (string, error) {
	query := fmt.Sprintf("SELECT * FROM `%s` LIMIT 10", f.schema.QualifiedTable())

	f.logger.Debug("fallback sample rows", zap.String("table", f.schema.TableID))

	result, err := f.wh.ExecuteQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("sample rows: %w", err)
	}

	return fmt.Sprintf("First 10 rows of %s table:\n%s", f.schema.TableID, markdown.RenderTable(result)), nil
}

func (f *FallbackResponder) helpText(userQuery string) string {
	return fmt.Sprintf(`I'm an AI agent connected to your BigQuery data through an MCP server.
I can help you explore your data in the %s dataset, specifically the %s table.
For best results, please configure your LLM API key in the .env file to enable full LLM-powered analysis.
Try asking questions like:
- 'What datasets do I have?'
- 'Show me the first 10 rows of data'
- 'How many rows are in my table?'
- 'What stocks have a valid industry?'

You asked: '%s'`, f.schema.DatasetID, f.schema.TableID, userQuery)
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
