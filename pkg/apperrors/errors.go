package apperrors

import "errors"

var (
	ErrModelUnavailable = errors.New("model backend unavailable")
	ErrDecisionParse    = errors.New("decision response is not valid JSON")
	ErrMissingArgument  = errors.New("missing required argument")
	ErrUnknownTool      = errors.New("unknown tool")
	ErrNotReadOnly      = errors.New("only read-only SQL statements are permitted")
)
