// Package logging provides the process logger and log sanitization helpers.
package logging

import (
	"go.uber.org/zap"
)

// New builds the process-wide logger. Local environments get a human-readable
// development logger; everything else logs structured JSON at info level.
func New(env string) (*zap.Logger, error) {
	if env == "local" {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}
