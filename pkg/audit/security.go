// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection detects SQL injection
	// patterns in a model-produced tool argument.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventQueryBlocked is logged when a generated query fails read-only validation.
	EventQueryBlocked SecurityEventType = "query_blocked"
	// EventQueryExecution is logged for successful query execution (optional, can be high volume).
	EventQueryExecution SecurityEventType = "query_execution"
)

// SecurityEvent represents an auditable security event with all relevant
// context for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	RequestID uuid.UUID         `json:"request_id"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SQLInjectionDetails contains specifics of a detected SQL injection attempt.
type SQLInjectionDetails struct {
	ToolName    string `json:"tool_name"`
	ArgName     string `json:"arg_name"`
	ArgValue    string `json:"arg_value"`
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
}

// QueryBlockedDetails contains specifics of a rejected SQL statement.
type QueryBlockedDetails struct {
	Query  string `json:"query"`
	Reason string `json:"reason"`
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger
// namespace for easy filtering in SIEM systems.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogInjectionAttempt records a detected SQL injection attempt inside a tool
// argument. Logged at ERROR level with "critical" severity for alerting.
func (a *SecurityAuditor) LogInjectionAttempt(requestID uuid.UUID, details SQLInjectionDetails) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventSQLInjectionAttempt,
		RequestID: requestID,
		Details:   details,
		Severity:  "critical",
	}

	// Marshaling known types should never fail
	eventJSON, _ := json.Marshal(event)

	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", string(eventJSON)),
		zap.String("request_id", requestID.String()),
		zap.String("tool", details.ToolName),
		zap.String("arg_name", details.ArgName),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("severity", "critical"),
	)
}

// LogQueryBlocked records a generated SQL statement rejected by the read-only
// guard. Logged at WARN level with "warning" severity.
func (a *SecurityAuditor) LogQueryBlocked(requestID uuid.UUID, details QueryBlockedDetails) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventQueryBlocked,
		RequestID: requestID,
		Details:   details,
		Severity:  "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Generated query blocked",
		zap.String("event_json", string(eventJSON)),
		zap.String("request_id", requestID.String()),
		zap.String("reason", details.Reason),
		zap.String("severity", "warning"),
	)
}
