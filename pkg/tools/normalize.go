package tools

import (
	"fmt"

	"github.com/dataquill/bq-agent/pkg/apperrors"
)

// NormalizeArguments reconciles model-produced arguments with each tool's
// declared parameters. Models routinely invent extra parameters (project_id
// is a common one) and rename the SQL parameter, so the lenient tools drop
// undeclared keys while the strict ones reject them.
func NormalizeArguments(toolName string, args map[string]any) (map[string]any, error) {
	switch toolName {
	case ToolListDatasetIDs:
		// Takes no parameters; whatever the model sent is ignored.
		return map[string]any{}, nil

	case ToolGetDatasetInfo:
		return keepDeclared(args, "dataset_id"), nil

	case ToolGetTableInfo:
		return keepDeclared(args, "dataset_id", "table_id"), nil

	case ToolListTableIDs:
		return rejectUndeclared(toolName, args, "dataset_id")

	case ToolExecuteSQL:
		normalized := aliasQueryArgument(args)
		return rejectUndeclared(toolName, normalized, "query")

	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownTool, toolName)
	}
}

// aliasQueryArgument maps the common "sql" and "sql_query" parameter names
// onto "query". An explicit "query" value is never overwritten.
func aliasQueryArgument(args map[string]any) map[string]any {
	normalized := make(map[string]any, len(args))
	for k, v := range args {
		normalized[k] = v
	}

	if _, hasQuery := normalized["query"]; !hasQuery {
		for _, alias := range []string{"sql", "sql_query"} {
			if v, ok := normalized[alias]; ok {
				normalized["query"] = v
				delete(normalized, alias)
				break
			}
		}
	} else {
		delete(normalized, "sql")
		delete(normalized, "sql_query")
	}

	return normalized
}

// keepDeclared copies only the declared keys out of args.
func keepDeclared(args map[string]any, declared ...string) map[string]any {
	kept := make(map[string]any, len(declared))
	for _, name := range declared {
		if v, ok := args[name]; ok {
			kept[name] = v
		}
	}
	return kept
}

// rejectUndeclared errors on any key outside the declared set.
func rejectUndeclared(toolName string, args map[string]any, declared ...string) (map[string]any, error) {
	allowed := make(map[string]bool, len(declared))
	for _, name := range declared {
		allowed[name] = true
	}

	for k := range args {
		if !allowed[k] {
			return nil, fmt.Errorf("%s: unexpected argument %q", toolName, k)
		}
	}

	return args, nil
}
