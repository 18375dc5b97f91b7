// Package logging configures the file-backed zap logger. The TUI owns the
// terminal, so nothing may write to stdout or stderr while it runs.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production logger writing to path. If the file cannot be
// opened the returned logger is a no-op; a client without a log file is not
// an error worth failing startup over.
func New(path string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
