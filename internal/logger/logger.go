// Package logger builds the zap loggers used by the example programs.
// Library consumers construct their own logger and hand it to the model
// builder through constmodel.WithLogger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger for the given environment. prod uses JSON output,
// everything else colored console output. A non-empty level overrides the
// config default: debug, info, warn, error.
func New(env, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(l)
	}

	return cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}
