package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/markdown"
	"github.com/dataquill/bq-agent/pkg/tools"
	"github.com/dataquill/bq-agent/pkg/warehouse"
)

// sectorListLimit caps how many sector values the specialized block
// enumerates before collapsing the rest into a count.
const sectorListLimit = 10

// ResultFormatter turns dispatched tool results into the markdown answer
// shown to the user. Analytical queries get a structured report; everything
// else gets a plain tool-by-tool relay.
type ResultFormatter struct {
	logger *zap.Logger
}

// NewResultFormatter creates a formatter.
func NewResultFormatter(logger *zap.Logger) *ResultFormatter {
	return &ResultFormatter{logger: logger.Named("formatter")}
}

// Format renders the results of one dispatch batch.
func (f *ResultFormatter) Format(userQuery string, results []tools.Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("I analyzed your question but didn't need to use any tools.\n\nYou asked: '%s'", userQuery)
	}

	if IsAnalyticalQuery(userQuery) {
		return f.formatAnalytical(userQuery, results)
	}

	return f.formatPlain(results)
}

// formatPlain relays each tool's output under a one-line summary. Query
// results render as markdown tables; everything else is stringified.
func (f *ResultFormatter) formatPlain(results []tools.Result) string {
	formatted := make([]string, 0, len(results))
	for _, r := range results {
		if r.Tool == tools.ToolExecuteSQL {
			formatted = append(formatted, fmt.Sprintf("%s:\n%s", r.Tool, renderQueryValue(r.Value)))
		} else {
			formatted = append(formatted, fmt.Sprintf("%s: %v", r.Tool, r.Value))
		}
	}

	return "Based on your question, I used the following tools:\n" + strings.Join(formatted, "\n")
}

// formatAnalytical builds the structured report. The last query-execution
// result is the primary payload; the first table-info result backs a table
// summary when no query result is present.
func (f *ResultFormatter) formatAnalytical(userQuery string, results []tools.Result) string {
	var queryResult any
	var tableInfo map[string]any

	for _, r := range results {
		switch r.Tool {
		case tools.ToolExecuteSQL:
			queryResult = r.Value
		case tools.ToolGetTableInfo:
			if tableInfo == nil {
				if info, ok := r.Value.(map[string]any); ok {
					tableInfo = info
				}
			}
		}
	}

	var b strings.Builder
	b.WriteString("## Analysis Results\n\n")

	switch {
	case queryResult != nil:
		f.writeQueryAnalysis(&b, userQuery, queryResult)
	case tableInfo != nil && tableInfo["table_id"] != nil:
		writeTableSummary(&b, tableInfo)
	default:
		b.WriteString("No data found for the requested analysis.\n\n")
	}

	return b.String()
}

// writeQueryAnalysis renders the primary query payload: the sector block
// when the predicate matches, a generic table otherwise, and fixed notices
// for errors and empty results.
func (f *ResultFormatter) writeQueryAnalysis(b *strings.Builder, userQuery string, value any) {
	result, ok := value.(*warehouse.QueryResult)
	if !ok {
		// A failed execution arrives as an error map, not a result set.
		b.WriteString("Unable to retrieve query results for detailed analysis.\n\n")
		return
	}

	if len(result.Rows) == 0 {
		b.WriteString("No data found for the requested analysis.\n\n")
		return
	}

	if _, failed := result.Rows[0]["error"]; failed {
		b.WriteString("Unable to retrieve query results for detailed analysis.\n\n")
		return
	}

	if sectorKey, ok := sectorColumn(userQuery, result.Rows[0]); ok {
		writeSectorAnalysis(b, result.Rows, sectorKey)
		return
	}

	b.WriteString("**Query Results:**\n\n")
	b.WriteString(markdown.RenderTable(result))
	b.WriteString("\n\n")
}

// sectorColumn returns the first column whose name contains "Sector", when
// the query itself asks about sectors.
func sectorColumn(userQuery string, row map[string]any) (string, bool) {
	if !strings.Contains(strings.ToLower(userQuery), "sector") {
		return "", false
	}
	for key := range row {
		if strings.Contains(key, "Sector") {
			return key, true
		}
	}
	return "", false
}

// writeSectorAnalysis renders the specialized sector report. The bullet
// lists are static text, not derived from the data.
func writeSectorAnalysis(b *strings.Builder, rows []map[string]any, sectorKey string) {
	b.WriteString("**Sector Analysis:**\n\n")
	b.WriteString("This query reveals the different industrial sectors represented in the dataset.\n\n")
	b.WriteString(fmt.Sprintf("**Total sectors identified**: %d\n\n", len(rows)))

	b.WriteString("**Sector List:**\n")
	limit := len(rows)
	if limit > sectorListLimit {
		limit = sectorListLimit
	}
	for i := 0; i < limit; i++ {
		name := "Unknown"
		if v, ok := rows[i][sectorKey]; ok && v != nil {
			name = fmt.Sprintf("%v", v)
		}
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
	}
	if len(rows) > sectorListLimit {
		b.WriteString(fmt.Sprintf("... and %d more sectors\n\n", len(rows)-sectorListLimit))
	}

	b.WriteString("**Analysis Observations:**\n")
	b.WriteString("- The dataset covers a diverse range of industrial sectors\n")
	b.WriteString("- Major sectors include Industrials, Technology, and Basic Materials\n")
	b.WriteString("- Sector diversity indicates comprehensive market coverage\n\n")

	b.WriteString("**Recommended Actions:**\n")
	b.WriteString("- Analyze sector distribution and representation\n")
	b.WriteString("- Compare performance across different sectors\n")
	b.WriteString("- Identify sector-specific investment opportunities\n\n")
}

// writeTableSummary renders table metadata when no query result is present.
func writeTableSummary(b *strings.Builder, info map[string]any) {
	b.WriteString("**Table Summary:**\n\n")
	b.WriteString(fmt.Sprintf("- **Table Name**: %s\n", fieldOrUnknown(info, "table_id")))
	b.WriteString(fmt.Sprintf("- **Number of Rows**: %s\n", fieldOrUnknown(info, "num_rows")))
	b.WriteString(fmt.Sprintf("- **Number of Columns**: %s\n\n", fieldOrUnknown(info, "num_columns")))

	b.WriteString("**Table Characteristics:**\n")
	b.WriteString("This table contains stock market data with comprehensive financial and technical analysis information.\n\n")

	b.WriteString("**Data Structure:**\n")
	b.WriteString("- Stock identification information (tickers, company names)\n")
	b.WriteString("- Sector and industry classifications\n")
	b.WriteString("- Technical trading indicators and recommendations\n")
	b.WriteString("- Price data and performance metrics\n\n")
}

func fieldOrUnknown(info map[string]any, key string) string {
	if v, ok := info[key]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return "Unknown"
}

// renderQueryValue formats an execute_sql result for the plain relay path.
func renderQueryValue(value any) string {
	switch v := value.(type) {
	case *warehouse.QueryResult:
		return markdown.RenderTable(v)
	case map[string]any:
		if msg, ok := v["error"]; ok {
			return fmt.Sprintf("Error: %v", msg)
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
