// Package markdown renders query results as GitHub-flavored markdown tables.
package markdown

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dataquill/bq-agent/pkg/warehouse"
)

// maxCellWidth is the display limit for string cells. Longer values are cut
// to 47 characters plus an ellipsis.
const maxCellWidth = 50

// RenderTable formats a query result as a markdown table. Empty results
// render as "No results found." and a result whose first row carries an
// "error" key renders as an error line instead of a table.
func RenderTable(result *warehouse.QueryResult) string {
	if result == nil || len(result.Rows) == 0 {
		return "No results found."
	}

	if msg, ok := result.Rows[0]["error"]; ok {
		return fmt.Sprintf("Error: %v", msg)
	}

	columns := result.Columns
	if len(columns) == 0 {
		columns = sortedKeys(result.Rows[0])
	}

	var b strings.Builder

	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")

	separators := make([]string, len(columns))
	for i := range separators {
		separators[i] = "---"
	}
	b.WriteString("|" + strings.Join(separators, "|") + "|")

	for _, row := range result.Rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = FormatCell(row[col])
		}
		b.WriteString("\n| " + strings.Join(cells, " | ") + " |")
	}

	return b.String()
}

// FormatCell converts a single value to its table representation. NULLs
// render as the literal "NULL"; numbers and booleans pass through as-is;
// anything else is stringified and truncated for display.
func FormatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		return fmt.Sprintf("%v", v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%v", v)
	case float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		s := fmt.Sprintf("%v", v)
		if len(s) > maxCellWidth {
			s = s[:maxCellWidth-3] + "..."
		}
		return s
	}
}

// sortedKeys gives a deterministic column order when the driver did not
// report one.
func sortedKeys(row map[string]any) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
