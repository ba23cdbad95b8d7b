// Package tlog is the logging shim the temporalctl CLI uses: an
// atomic enable/disable flag wrapped around slog.
package tlog

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/lmittmann/tint"
)

// Log wraps an *slog.Logger with a runtime enable/disable flag so library
// code can unconditionally call Debug/Warn/Error without a nil check, and a
// host can silence it entirely without reconfiguring the handler.
type Log struct {
	logger *slog.Logger
	// enabled is 1 when logging is active, 0 when silenced.
	enabled uint32
}

// New wraps logger, enabled by default.
func New(logger *slog.Logger) *Log {
	return &Log{logger: logger, enabled: 1}
}

// NewText builds a colorized text logger for CLI use, backed by the
// lmittmann/tint handler.
func NewText(level slog.Level) *Log {
	h := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	})
	return New(slog.New(h))
}

// NewJSON builds a structured JSON logger for embedding in a larger service.
func NewJSON(level slog.Level) *Log {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return New(slog.New(h))
}

// Discard returns a Log that never emits anything.
func Discard() *Log {
	l := New(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	l.SetEnabled(false)
	return l
}

// SetEnabled turns logging on or off.
func (l *Log) SetEnabled(enabled bool) {
	if enabled {
		atomic.StoreUint32(&l.enabled, 1)
	} else {
		atomic.StoreUint32(&l.enabled, 0)
	}
}

func (l *Log) on() bool { return l != nil && atomic.LoadUint32(&l.enabled) == 1 }

// Debug logs construction/normalization tracing. Library code never logs
// at a higher level for conditions the caller can inspect via a returned
// error.
func (l *Log) Debug(msg string, args ...any) {
	if l.on() {
		l.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
	}
}

// Warn logs a recoverable anomaly (e.g. a policy fallback taken).
func (l *Log) Warn(msg string, args ...any) {
	if l.on() {
		l.logger.Log(context.Background(), slog.LevelWarn, msg, args...)
	}
}

// Error logs a failure the caller has already been given as a returned error.
func (l *Log) Error(msg string, args ...any) {
	if l.on() {
		l.logger.Log(context.Background(), slog.LevelError, msg, args...)
	}
}
