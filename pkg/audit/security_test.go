package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogInjectionAttempt(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	auditor := NewSecurityAuditor(zap.New(core))
	requestID := uuid.New()

	auditor.LogInjectionAttempt(requestID, SQLInjectionDetails{
		ToolName:    "get_table_info",
		ArgName:     "table_id",
		ArgValue:    "x'; DROP TABLE t--",
		Fingerprint: "s&1c",
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, requestID.String(), fields["request_id"])
	assert.Equal(t, "get_table_info", fields["tool"])
	assert.Equal(t, "critical", fields["severity"])
	assert.Contains(t, fields["event_json"], "sql_injection_attempt")
}

func TestLogQueryBlocked(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	auditor := NewSecurityAuditor(zap.New(core))
	requestID := uuid.New()

	auditor.LogQueryBlocked(requestID, QueryBlockedDetails{
		Query:  "DROP TABLE stocks",
		Reason: "only SELECT statements are permitted",
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["event_json"], "query_blocked")
}
