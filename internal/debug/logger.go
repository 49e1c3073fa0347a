// Package debug holds the process wide slog logger.
//
// Disabled, only errors are written. Enabled, every level down to debug is
// written. DICTQUERY_LOG_FORMAT=json switches the handler from text to JSON.
package debug

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	logger  *slog.Logger
	enabled bool
)

func init() {
	Init(false)
}

// Init configures the logger to write to os.Stderr.
func Init(enable bool) {
	InitWriter(enable, os.Stderr)
}

// InitWriter configures the logger to write to w.
func InitWriter(enable bool, w io.Writer) {
	opts := &slog.HandlerOptions{Level: slog.LevelError}
	if enable {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("DICTQUERY_LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	logger = slog.New(handler)
}

// Enabled reports whether debug output is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Logger returns the current logger. Loggers handed out before a later
// Init keep their old settings.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }
