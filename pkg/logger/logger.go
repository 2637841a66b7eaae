// Package logger provides structured logging for the hookd daemon and CLI.
package logger

import (
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// LogFilePermissions defines the file permissions for log files (owner read/write only).
const LogFilePermissions = 0o600

// Logger provides the structured logging interface shared by every component.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// SlogAdapter implements Logger on top of log/slog with the custom
// key=value handler. All daemon components share one adapter; the handler
// serializes concurrent writes.
type SlogAdapter struct {
	slog *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter from any slog.Handler.
func NewSlogAdapter(handler slog.Handler) *SlogAdapter {
	return &SlogAdapter{slog: slog.New(handler)}
}

// NewFileLogger creates a logger that appends to the log file at path.
// The debug and trace flags control verbosity via LevelFromFlags.
func NewFileLogger(path string, debug, trace bool) (*SlogAdapter, error) {
	handler, err := NewFileHandler(path, LevelFromFlags(debug, trace))
	if err != nil {
		return nil, errors.Wrap(err, "opening log file")
	}

	return NewSlogAdapter(handler), nil
}

// NewFileLoggerWithWriter creates a logger that writes to the given writer.
// Used by foreground serving (stderr) and tests (buffers).
func NewFileLoggerWithWriter(w io.Writer, debug, trace bool) *SlogAdapter {
	return NewSlogAdapter(NewWriterHandler(w, LevelFromFlags(debug, trace)))
}

// Debug logs debug-level messages.
func (l *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	l.slog.Debug(msg, keysAndValues...)
}

// Info logs info-level messages.
func (l *SlogAdapter) Info(msg string, keysAndValues ...any) {
	l.slog.Info(msg, keysAndValues...)
}

// Warn logs warning-level messages.
func (l *SlogAdapter) Warn(msg string, keysAndValues ...any) {
	l.slog.Warn(msg, keysAndValues...)
}

// Error logs error-level messages.
func (l *SlogAdapter) Error(msg string, keysAndValues ...any) {
	l.slog.Error(msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (l *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{slog: l.slog.With(keysAndValues...)}
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Warn does nothing.
func (*NoOpLogger) Warn(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}

var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*NoOpLogger)(nil)
)
