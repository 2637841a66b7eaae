// Package controller wires handler construction, registration, dispatch,
// and decision accounting into the single unit the daemon serves from.
package controller

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookd/internal/history"
	"github.com/smykla-skalski/hookd/internal/hookresponse"
	"github.com/smykla-skalski/hookd/pkg/hook"
)

// SystemEvent is the reserved event name for control-plane requests. They
// bypass input validation and handler routing entirely.
const SystemEvent = "_system"

// Control-plane commands carried in the hook_input of a SystemEvent
// request.
const (
	SystemPing     = "ping"
	SystemStatus   = "status"
	SystemRecent   = "recent"
	SystemShutdown = "shutdown"
)

const (
	// DefaultRecentCount is the record count returned when a recent
	// command does not name one.
	DefaultRecentCount = 10

	// MaxRecentCount caps the record count of a recent command.
	MaxRecentCount = 100
)

// Request is the wire shape of one protocol line.
type Request struct {
	// Event names the event type, or SystemEvent for control-plane
	// requests.
	Event string `json:"event"`

	// HookInput is the raw hook input object, or the command payload for
	// control-plane requests.
	HookInput json.RawMessage `json:"hook_input"`

	// RequestID is the caller-supplied correlation id, echoed in every
	// reply that could parse it.
	RequestID string `json:"request_id"`
}

// systemPayload is the hook_input of a control-plane request.
type systemPayload struct {
	Command string `json:"command"`
	Count   int    `json:"count,omitempty"`
}

// PingReply answers a liveness probe.
type PingReply struct {
	RequestID string `json:"request_id,omitempty"`
	Status    string `json:"status"`
	Version   string `json:"version"`
}

// StatusReply carries the daemon's request counters and handler registry
// sizes.
type StatusReply struct {
	RequestID string           `json:"request_id,omitempty"`
	Version   string           `json:"version"`
	Stats     history.Snapshot `json:"stats"`
	Handlers  map[string]int   `json:"handlers"`
}

// RecentReply carries recent decision records, newest first.
type RecentReply struct {
	RequestID string           `json:"request_id,omitempty"`
	Records   []history.Record `json:"records"`
}

// ShutdownReply acknowledges a shutdown command before the stop begins.
type ShutdownReply struct {
	RequestID string `json:"request_id,omitempty"`
	Status    string `json:"status"`
}

// ProcessRequest parses one protocol line, dispatches it, and returns the
// reply to serialize. Malformed lines and structurally invalid requests
// produce an error reply instead of dispatching; the connection itself is
// unaffected.
func (c *Controller) ProcessRequest(ctx context.Context, line []byte) any {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		c.stats.RecordError()
		c.log.Warn("malformed request", "error", err)

		// No request id: the line never parsed.
		return &hookresponse.ErrorResponse{
			Error: "malformed request: " + err.Error(),
		}
	}

	if req.Event == SystemEvent {
		return c.processSystem(&req)
	}

	if req.Event == "" {
		c.stats.RecordError()

		return &hookresponse.ErrorResponse{
			Error:     "missing required field: event",
			RequestID: req.RequestID,
		}
	}

	if len(req.HookInput) == 0 || string(req.HookInput) == "null" {
		c.stats.RecordError()

		return &hookresponse.ErrorResponse{
			Error:     "missing required field: hook_input",
			RequestID: req.RequestID,
		}
	}

	eventType, err := hook.ParseEventType(req.Event)
	if err != nil {
		c.stats.RecordError()

		return &hookresponse.ErrorResponse{
			Error:     err.Error(),
			RequestID: req.RequestID,
		}
	}

	input, err := c.parseHookInput(req.HookInput)
	if err != nil {
		c.stats.RecordError()

		return &hookresponse.ErrorResponse{
			Error:     err.Error(),
			RequestID: req.RequestID,
		}
	}

	event := &hook.Event{
		Type:      eventType,
		Input:     input,
		RequestID: req.RequestID,
	}

	chainResult, err := c.ProcessEvent(ctx, event)
	if err != nil {
		c.stats.RecordError()
		c.log.Error("dispatch failed", "event", req.Event, "error", err)

		return &hookresponse.ErrorResponse{
			Error:     err.Error(),
			RequestID: req.RequestID,
		}
	}

	return hookresponse.NewEnvelope(
		req.RequestID,
		chainResult.Result,
		eventType,
		chainResult.ExecutionTimeMS,
	)
}

// parseHookInput decodes the hook_input object. A schema-invalid object is
// rejected in strict mode; otherwise the failure is logged and whatever
// fields did decode are dispatched, so a malformed caller never loses
// protection.
func (c *Controller) parseHookInput(raw json.RawMessage) (*hook.Input, error) {
	input, err := hook.ParseInput(raw)
	if err == nil {
		return input, nil
	}

	if c.strictInput {
		return nil, errors.Wrap(err, "input_validation_failed")
	}

	c.log.Warn("hook_input failed validation, dispatching anyway", "error", err)

	input = &hook.Input{}
	_ = json.Unmarshal(raw, input)
	input.Raw = append(json.RawMessage(nil), raw...)

	return input, nil
}

func (c *Controller) processSystem(req *Request) any {
	var payload systemPayload
	if len(req.HookInput) > 0 {
		if err := json.Unmarshal(req.HookInput, &payload); err != nil {
			return &hookresponse.ErrorResponse{
				Error:     "malformed _system payload: " + err.Error(),
				RequestID: req.RequestID,
			}
		}
	}

	switch payload.Command {
	case SystemPing:
		return &PingReply{
			RequestID: req.RequestID,
			Status:    "ok",
			Version:   c.version,
		}

	case SystemStatus:
		return &StatusReply{
			RequestID: req.RequestID,
			Version:   c.version,
			Stats:     c.stats.Snapshot(),
			Handlers:  c.HandlerCounts(),
		}

	case SystemRecent:
		count := payload.Count
		if count <= 0 {
			count = DefaultRecentCount
		}

		if count > MaxRecentCount {
			count = MaxRecentCount
		}

		return &RecentReply{
			RequestID: req.RequestID,
			Records:   c.history.Recent(count),
		}

	case SystemShutdown:
		return c.systemShutdown(req.RequestID)

	default:
		return &hookresponse.ErrorResponse{
			Error:     errors.Newf("unknown _system command %q", payload.Command).Error(),
			RequestID: req.RequestID,
		}
	}
}

// systemShutdown triggers the installed stop callback asynchronously so
// the acknowledgement still reaches the caller; the server's grace period
// covers the in-flight write.
func (c *Controller) systemShutdown(requestID string) any {
	c.mu.Lock()
	fn := c.shutdown
	c.mu.Unlock()

	if fn == nil {
		return &hookresponse.ErrorResponse{
			Error:     "shutdown is not available on this endpoint",
			RequestID: requestID,
		}
	}

	c.log.Info("shutdown requested over the socket")

	go fn()

	return &ShutdownReply{
		RequestID: requestID,
		Status:    "shutting_down",
	}
}
