// Package logging provides the single process-wide structured logger used
// by the content manager, endpoint broker, async runtime, and command
// entrypoint to report load failures, token-refresh failures, and worker
// panics. The quantized mesh and glTF decoders never log; they report
// failures as values.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once   sync.Once
	logger *log.Logger
)

// Logger returns the shared structured logger, initialising it on first use.
func Logger() *log.Logger {
	once.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Level:           log.InfoLevel,
		})
	})
	return logger
}

// SetLevel adjusts the shared logger's minimum level, e.g. to debug during tests.
func SetLevel(level log.Level) {
	Logger().SetLevel(level)
}

func Debug(msg string, keyvals ...any) { Logger().Debug(msg, keyvals...) }
func Info(msg string, keyvals ...any)  { Logger().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { Logger().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...any) { Logger().Error(msg, keyvals...) }
