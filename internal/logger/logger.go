// Package logger builds the zap logger for the configured environment.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a production logger for "production", a no-op logger for "nop",
// and a development logger otherwise.
func New(env string) (*zap.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production":
		return zap.NewProduction()
	case "nop":
		return zap.NewNop(), nil
	}

	return zap.NewDevelopment()
}
