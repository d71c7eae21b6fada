package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencePattern locates a markdown code fence, optionally labeled json.
var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls the JSON payload out of a model response that may wrap it
// in markdown formatting. Extraction order:
//
//  1. a fenced code block (labeled json or unlabeled) containing an object -
//     the first balanced {...} inside the fence wins;
//  2. a bare {...} object anchored at the end of the text;
//  3. otherwise the raw text is returned unchanged, so the subsequent parse
//     fails and is reported instead of being silently retried.
func ExtractJSON(response string) string {
	if m := fencePattern.FindStringSubmatch(response); m != nil {
		if obj, ok := extractBalancedObject(m[1]); ok {
			return obj
		}
	}

	// Bare object ending the response (trailing whitespace tolerated).
	trimmed := strings.TrimRight(response, " \t\r\n")
	if strings.HasSuffix(trimmed, "}") {
		if start := strings.IndexByte(trimmed, '{'); start >= 0 {
			candidate := trimmed[start:]
			if obj, ok := extractBalancedObject(candidate); ok && len(obj) == len(candidate) {
				return obj
			}
			// Unbalanced head: fall back to the last balanced object.
			if obj, ok := lastBalancedObject(trimmed); ok {
				return obj
			}
		}
	}

	return response
}

// extractBalancedObject finds the first balanced {...} in s.
// It tracks string literals so braces inside quoted values don't count.
func extractBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// lastBalancedObject scans for the latest balanced object that closes at the
// end of s.
func lastBalancedObject(s string) (string, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if obj, ok := extractBalancedObject(s[start:]); ok && start+len(obj) == len(s) {
			return obj, true
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += 1 + next
	}
	return "", false
}

// ParseJSONResponse extracts JSON from a response and unmarshals it into T.
func ParseJSONResponse[T any](response string) (T, error) {
	var result T

	jsonStr := strings.TrimSpace(ExtractJSON(response))
	if !json.Valid([]byte(jsonStr)) {
		return result, fmt.Errorf("no valid JSON found in response")
	}

	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("unmarshal JSON: %w", err)
	}

	return result, nil
}
