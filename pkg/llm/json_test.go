package llm

import (
	"testing"
)

func TestExtractJSON_FencedLabeled(t *testing.T) {
	input := "Here you go:\n```json\n{\"tool_calls\": []}\n```\nDone."
	expected := `{"tool_calls": []}`
	if got := ExtractJSON(input); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestExtractJSON_FencedUnlabeled(t *testing.T) {
	input := "```\n{\"name\": \"execute_sql\"}\n```"
	expected := `{"name": "execute_sql"}`
	if got := ExtractJSON(input); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestExtractJSON_FencedNested(t *testing.T) {
	input := "```json\n{\"outer\": {\"inner\": [1, 2]}}\n```"
	expected := `{"outer": {"inner": [1, 2]}}`
	if got := ExtractJSON(input); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestExtractJSON_BareObjectAtEnd(t *testing.T) {
	input := "The plan is as follows:\n{\"tool_calls\": [{\"name\": \"list_dataset_ids\", \"arguments\": {}}]}"
	expected := `{"tool_calls": [{"name": "list_dataset_ids", "arguments": {}}]}`
	if got := ExtractJSON(input); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestExtractJSON_BareObjectTrailingWhitespace(t *testing.T) {
	input := "{\"a\": 1}\n  "
	expected := `{"a": 1}`
	if got := ExtractJSON(input); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	input := "```json\n{\"query\": \"SELECT '{' FROM t\"}\n```"
	expected := `{"query": "SELECT '{' FROM t"}`
	if got := ExtractJSON(input); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestExtractJSON_NoJSONPassthrough(t *testing.T) {
	input := "I could not produce a plan for that question."
	if got := ExtractJSON(input); got != input {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestExtractJSON_ObjectNotAtEndPassthrough(t *testing.T) {
	input := "{\"a\": 1} and then some trailing prose"
	if got := ExtractJSON(input); got != input {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestParseJSONResponse_Valid(t *testing.T) {
	type decision struct {
		ToolCalls []struct {
			Name string `json:"name"`
		} `json:"tool_calls"`
	}

	input := "```json\n{\"tool_calls\": [{\"name\": \"execute_sql\"}]}\n```"
	got, err := ParseJSONResponse[decision](input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.ToolCalls) != 1 || got.ToolCalls[0].Name != "execute_sql" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestParseJSONResponse_Invalid(t *testing.T) {
	_, err := ParseJSONResponse[map[string]any]("not json at all")
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
