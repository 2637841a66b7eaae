package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const initialBufferCapacity = 256

// KVHandler is a slog.Handler that renders records as
// "2006-01-02T15:04:05-07:00 LEVEL msg key=value" lines. The mutex
// serializes writes from concurrent connection goroutines.
type KVHandler struct {
	writer io.Writer
	mu     sync.Mutex
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewFileHandler creates a KVHandler appending to the log file at path.
func NewFileHandler(path string, level Level) (*KVHandler, error) {
	//nolint:gosec // Log path comes from configuration, not request input
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, err
	}

	return &KVHandler{
		writer: file,
		level:  level.ToSlogLevel(),
	}, nil
}

// NewWriterHandler creates a KVHandler writing to w.
func NewWriterHandler(w io.Writer, level Level) *KVHandler {
	return &KVHandler{
		writer: w,
		level:  level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *KVHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle renders and writes one log record.
func (h *KVHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf := make([]byte, 0, initialBufferCapacity)

	buf = append(buf, r.Time.Local().Format("2006-01-02T15:04:05-07:00")...)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for _, a := range h.attrs {
		buf = h.appendAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, a)

		return true
	})

	buf = append(buf, '\n')

	_, err := h.writer.Write(buf)

	return err
}

// appendAttr appends one attribute as key=value, group-prefixed when set.
func (h *KVHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}

	buf = append(buf, ' ')

	if len(h.groups) > 0 {
		buf = append(buf, strings.Join(h.groups, ".")...)
		buf = append(buf, '.')
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"") {
		buf = append(buf, quoteValue(val)...)
	} else {
		buf = append(buf, val...)
	}

	return buf
}

// quoteValue escapes and quotes a string value.
func quoteValue(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")

	return "\"" + s + "\""
}

// WithAttrs returns a new handler with the given attributes added.
func (h *KVHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &KVHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

// WithGroup returns a new handler with the given group name added.
func (h *KVHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	return &KVHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// Close closes the underlying writer if it implements io.Closer.
func (h *KVHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if closer, ok := h.writer.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

var _ slog.Handler = (*KVHandler)(nil)
