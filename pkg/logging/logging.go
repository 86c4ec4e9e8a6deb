// Package logging builds the zap logger. The TUI owns the terminal, so logs
// go to a file; the plain presenter may also log to stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the sinks.
type Options struct {
	// File receives JSON logs. Empty disables the file sink.
	File string
	// Level is a zap level name; empty means info.
	Level string
	// Stderr adds a console encoder on stderr.
	Stderr bool
	// Development switches the file sink to zap's development config.
	Development bool
}

// New builds a logger for opts. With no sink it returns a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = l
	}

	var cores []zapcore.Core

	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		config := zap.NewProductionConfig()
		if opts.Development {
			config = zap.NewDevelopmentConfig()
		}
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
		fileLogger, err := config.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		cores = append(cores, fileLogger.Core())
	}

	if opts.Stderr {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level))
	}

	switch len(cores) {
	case 0:
		return zap.NewNop(), nil
	case 1:
		return zap.New(cores[0]), nil
	default:
		return zap.New(zapcore.NewTee(cores...)), nil
	}
}
