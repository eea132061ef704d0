package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the console logger used by the server and the CLI.
// Unknown levels fall back to debug.
func NewLogger(level string, outputs ...string) (*zap.Logger, error) {
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	atomicLevel := zap.NewAtomicLevelAt(zap.DebugLevel)
	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			atomicLevel = zap.NewAtomicLevelAt(lvl)
		}
	}

	cfg := zap.Config{
		Encoding:         "console",
		Level:            atomicLevel,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// MustNewLogger panics when the logger cannot be built.
func MustNewLogger(level string, outputs ...string) *zap.Logger {
	l, err := NewLogger(level, outputs...)
	if err != nil {
		panic(err)
	}
	return l
}
