// Package history keeps the daemon's in-memory record of handler
// decisions, plus the running request counters exposed by status tooling.
// Both structures are shared across connection tasks and synchronize
// internally.
package history

import (
	"sync"
	"time"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/hook"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

// DefaultMaxSize is the record capacity used when none is configured.
const DefaultMaxSize = 1000

// Record is one handler decision. Immutable once recorded.
type Record struct {
	// Handler is the identity of the handler that decided.
	Handler string `json:"handler"`

	// Event is the event type the decision was made for.
	Event hook.EventType `json:"event"`

	// Decision is what the handler decided.
	Decision handler.Decision `json:"decision"`

	// Tool is the raw tool name from the input, when the event carried one.
	Tool string `json:"tool,omitempty"`

	// Reason is the handler's reason, if any.
	Reason string `json:"reason,omitempty"`

	// Timestamp is when the decision was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// History is a fixed-capacity buffer of decision records. Once capacity is
// exceeded the oldest record is evicted; TotalCount keeps counting
// regardless of eviction.
type History struct {
	mu         sync.RWMutex
	records    []Record
	totalCount int
	maxSize    int
	logger     logger.Logger

	// now returns the current time. Replaced in tests.
	now func() time.Time
}

// Option configures a History.
type Option func(*History)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(h *History) {
		if log != nil {
			h.logger = log
		}
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) Option {
	return func(h *History) {
		if fn != nil {
			h.now = fn
		}
	}
}

// New creates a History retaining at most maxSize records. A non-positive
// maxSize falls back to DefaultMaxSize.
func New(maxSize int, opts ...Option) *History {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	h := &History{
		maxSize: maxSize,
		logger:  logger.NewNoOpLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Record appends a decision record, evicting the oldest entry once
// capacity is exceeded. A zero timestamp is filled in with the current
// time.
func (h *History) Record(record Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if record.Timestamp.IsZero() {
		record.Timestamp = h.now()
	}

	h.records = append(h.records, record)
	if len(h.records) > h.maxSize {
		h.records = h.records[1:]
	}

	h.totalCount++

	h.logger.Debug("decision recorded",
		"handler", record.Handler,
		"event", record.Event.String(),
		"decision", record.Decision.String(),
	)
}

// Recent returns the n most recent records, newest first, clipped to what
// is retained. A non-positive n returns nothing.
func (h *History) Recent(n int) []Record {
	if n <= 0 {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > len(h.records) {
		n = len(h.records)
	}

	out := make([]Record, 0, n)
	for i := len(h.records) - 1; i >= len(h.records)-n; i-- {
		out = append(out, h.records[i])
	}

	return out
}

// TotalCount returns how many records were ever recorded, including
// evicted ones. Monotonic until Reset.
func (h *History) TotalCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.totalCount
}

// Len returns the number of currently retained records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.records)
}

// CountBlocks counts retained records whose decision blocked the action
// (deny or ask, never allow).
func (h *History) CountBlocks() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0

	for _, record := range h.records {
		if record.Decision.Blocks() {
			count++
		}
	}

	return count
}

// CountBlocksByHandler scopes CountBlocks to one handler identity.
func (h *History) CountBlocksByHandler(name string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0

	for _, record := range h.records {
		if record.Handler == name && record.Decision.Blocks() {
			count++
		}
	}

	return count
}

// WasBlocked reports whether any retained record blocked the given tool.
func (h *History) WasBlocked(tool string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, record := range h.records {
		if record.Tool == tool && record.Decision.Blocks() {
			return true
		}
	}

	return false
}

// Reset clears all records and the total count.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = nil
	h.totalCount = 0

	h.logger.Debug("history reset")
}
