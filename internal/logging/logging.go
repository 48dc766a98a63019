// ABOUTME: Structured logger construction
// ABOUTME: Logs to file only while the TUI owns the terminal, to stdout and file otherwise
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options holds logger configuration
type Options struct {
	// File receives every log line; empty disables file output
	File string

	// TUI keeps stdout clear for the terminal UI
	TUI bool

	// Debug enables debug level
	Debug bool

	// Stdout overrides the console sink (default: os.Stdout)
	Stdout io.Writer
}

// New builds a logger and returns a cleanup func that syncs and closes sinks
func New(opts Options) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Debug {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	var sinks []zapcore.WriteSyncer
	var file *os.File

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening log file: %w", err)
		}
		file = f
		sinks = append(sinks, zapcore.AddSync(f))
	}

	if !opts.TUI {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		sinks = append(sinks, zapcore.AddSync(stdout))
	}

	if len(sinks) == 0 {
		return zap.NewNop(), func() {}, nil
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(sinks...),
		level,
	)
	logger := zap.New(core)

	cleanup := func() {
		_ = logger.Sync()
		if file != nil {
			file.Close()
		}
	}

	return logger, cleanup, nil
}
