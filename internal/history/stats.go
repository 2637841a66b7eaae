package history

import (
	"sync"
	"time"

	"github.com/smykla-skalski/hookd/pkg/hook"
)

// Stats holds the daemon's running request counters. Reset only by
// process restart.
type Stats struct {
	mu                sync.Mutex
	requestsProcessed int
	requestsByEvent   map[hook.EventType]int
	totalProcessingMS float64
	errors            int
	lastRequestTime   time.Time
	startTime         time.Time

	// now returns the current time. Replaced in tests.
	now func() time.Time
}

// StatsOption configures a Stats.
type StatsOption func(*Stats)

// WithStatsTimeFunc sets a custom time function for testing.
func WithStatsTimeFunc(fn func() time.Time) StatsOption {
	return func(s *Stats) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewStats creates Stats with the start time set to now.
func NewStats(opts ...StatsOption) *Stats {
	s := &Stats{
		requestsByEvent: make(map[hook.EventType]int),
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.startTime = s.now()

	return s
}

// RecordRequest samples one completed request.
func (s *Stats) RecordRequest(event hook.EventType, durationMS float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requestsProcessed++
	s.requestsByEvent[event]++
	s.totalProcessingMS += durationMS
	s.lastRequestTime = s.now()
}

// RecordError counts one failed request.
func (s *Stats) RecordError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errors++
}

// Snapshot is a point-in-time copy of the counters, shaped for the
// status payload.
type Snapshot struct {
	RequestsProcessed int            `json:"requests_processed"`
	RequestsByEvent   map[string]int `json:"requests_by_event"`
	TotalProcessingMS float64        `json:"total_processing_time_ms"`
	Errors            int            `json:"errors"`
	LastRequestTime   *time.Time     `json:"last_request_time,omitempty"`
	StartTime         time.Time      `json:"start_time"`
	UptimeSeconds     float64        `json:"uptime_seconds"`
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	byEvent := make(map[string]int, len(s.requestsByEvent))
	for event, count := range s.requestsByEvent {
		byEvent[event.String()] = count
	}

	snapshot := Snapshot{
		RequestsProcessed: s.requestsProcessed,
		RequestsByEvent:   byEvent,
		TotalProcessingMS: s.totalProcessingMS,
		Errors:            s.errors,
		StartTime:         s.startTime,
		UptimeSeconds:     s.now().Sub(s.startTime).Seconds(),
	}

	if !s.lastRequestTime.IsZero() {
		last := s.lastRequestTime
		snapshot.LastRequestTime = &last
	}

	return snapshot
}
