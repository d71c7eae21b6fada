package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult contains the result of an injection check on a
// tool-argument value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	ArgName     string // Name of the argument that failed the check
	ArgValue    any    // The value that was checked
}

// CheckArgumentForInjection uses libinjection to detect SQL injection patterns
// in a tool-argument value. Model-produced identifier arguments (dataset_id,
// table_id) are interpolated into metadata queries, so they are screened the
// same way user-supplied parameters would be.
//
// Only string values are checked - numbers, booleans, and other types cannot
// contain SQL injection patterns and return nil.
func CheckArgumentForInjection(argName string, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			ArgName:     argName,
			ArgValue:    value,
		}
	}

	return nil
}

// CheckAllArguments screens every argument value for SQL injection attempts.
// Returns one result per flagged argument; empty slice when all are clean.
func CheckAllArguments(args map[string]any) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for name, value := range args {
		if result := CheckArgumentForInjection(name, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
