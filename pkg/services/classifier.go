package services

import (
	"regexp"
	"strings"
)

// Two independent keyword classifiers route a user query. The analytical
// classifier picks the report-style formatting path; the enhancement
// classifier decides whether a second model call should interpret the
// formatted result. Their vocabularies overlap but differ, and they are kept
// separate on purpose.
var (
	analyticalKeywords = []string{
		"analyse", "analyze", "analysis", "understand", "summary",
		"summarize", "nature", "explain", "insight", "provide",
		"find", "different", "compare", "trend", "pattern",
	}

	enhancementKeywords = []string{
		"analyze", "analysis", "compare", "trend", "pattern", "insight",
		"relationship", "correlation", "forecast", "predict", "summary",
		"recommend", "suggestion", "why", "how", "explain", "understand",
	}

	analyticalPattern  = compileKeywordPattern(analyticalKeywords)
	enhancementPattern = compileKeywordPattern(enhancementKeywords)
)

// compileKeywordPattern builds a word-boundary alternation so that keywords
// only match as whole words ("analyze" must not match inside "analyzer").
func compileKeywordPattern(keywords []string) *regexp.Regexp {
	escaped := make([]string, len(keywords))
	for i, kw := range keywords {
		escaped[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(escaped, "|") + `)\b`)
}

// IsAnalyticalQuery reports whether the query should get the structured
// analysis report instead of the plain tool-by-tool relay.
func IsAnalyticalQuery(query string) bool {
	return analyticalPattern.MatchString(strings.ToLower(query))
}

// NeedsEnhancement reports whether the formatted result should be sent
// through a second model call for interpretation.
func NeedsEnhancement(query string) bool {
	return enhancementPattern.MatchString(strings.ToLower(query))
}
