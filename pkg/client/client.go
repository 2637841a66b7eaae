// Package client is a typed client for the hookd dispatch socket. It
// speaks the newline-delimited JSON protocol and mirrors the wire shapes
// so callers outside the daemon never import its internals.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const (
	// systemEvent is the reserved control-plane event name.
	systemEvent = "_system"

	// DefaultDialTimeout bounds how long a dial waits for the daemon.
	DefaultDialTimeout = 2 * time.Second
)

// ServerError is a structured error reply from the daemon.
type ServerError struct {
	Message   string
	RequestID string
}

func (e *ServerError) Error() string {
	return e.Message
}

// request is the wire shape of one protocol line.
type request struct {
	Event     string `json:"event"`
	HookInput any    `json:"hook_input"`
	RequestID string `json:"request_id"`
}

// Result is the bare decision block inside a reply.
type Result struct {
	Decision string   `json:"decision"`
	Reason   string   `json:"reason,omitempty"`
	Context  []string `json:"context,omitempty"`
}

// Response is a dispatch reply. Raw preserves the full line, including
// the event-facing fields outside the result block.
type Response struct {
	RequestID       string   `json:"request_id"`
	Result          *Result  `json:"result"`
	TimingMS        float64  `json:"timing_ms"`
	HandlersMatched []string `json:"handlers_matched"`

	Raw json.RawMessage `json:"-"`
}

// PingInfo is the liveness reply.
type PingInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Stats mirrors the daemon's request counters.
type Stats struct {
	RequestsProcessed int            `json:"requests_processed"`
	RequestsByEvent   map[string]int `json:"requests_by_event"`
	TotalProcessingMS float64        `json:"total_processing_time_ms"`
	Errors            int            `json:"errors"`
	LastRequestTime   *time.Time     `json:"last_request_time,omitempty"`
	StartTime         time.Time      `json:"start_time"`
	UptimeSeconds     float64        `json:"uptime_seconds"`
}

// StatusInfo is the status reply: counters plus registered handler counts
// per event type.
type StatusInfo struct {
	Version  string         `json:"version"`
	Stats    Stats          `json:"stats"`
	Handlers map[string]int `json:"handlers"`
}

// DecisionRecord is one recent handler decision.
type DecisionRecord struct {
	Handler   string    `json:"handler"`
	Event     string    `json:"event"`
	Decision  string    `json:"decision"`
	Tool      string    `json:"tool,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Client talks to one daemon socket. Each call opens a fresh connection;
// the daemon is local, so connection reuse buys nothing worth the state.
type Client struct {
	socketPath  string
	dialTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithDialTimeout overrides the dial timeout.
func WithDialTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.dialTimeout = timeout
		}
	}
}

// New creates a Client for the given socket path.
func New(socketPath string, opts ...Option) *Client {
	c := &Client{
		socketPath:  socketPath,
		dialTimeout: DefaultDialTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SocketPath returns the socket path the client dials.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// Do dispatches one hook event and returns the decoded reply. hookInput
// may be any JSON-marshalable value, typically the raw hook input object.
func (c *Client) Do(ctx context.Context, event string, hookInput any) (*Response, error) {
	line, err := c.roundTrip(ctx, request{
		Event:     event,
		HookInput: hookInput,
		RequestID: uuid.New().String(),
	})
	if err != nil {
		return nil, err
	}

	if err := serverError(line); err != nil {
		return nil, err
	}

	response := &Response{}
	if err := json.Unmarshal(line, response); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	response.Raw = line

	return response, nil
}

// Ping checks daemon liveness.
func (c *Client) Ping(ctx context.Context) (*PingInfo, error) {
	info := &PingInfo{}
	if err := c.system(ctx, "ping", nil, info); err != nil {
		return nil, err
	}

	return info, nil
}

// Status fetches the daemon's counters and handler registry sizes.
func (c *Client) Status(ctx context.Context) (*StatusInfo, error) {
	info := &StatusInfo{}
	if err := c.system(ctx, "status", nil, info); err != nil {
		return nil, err
	}

	return info, nil
}

// Recent fetches up to count recent decision records, newest first. A
// non-positive count uses the daemon's default.
func (c *Client) Recent(ctx context.Context, count int) ([]DecisionRecord, error) {
	payload := map[string]any{}
	if count > 0 {
		payload["count"] = count
	}

	var reply struct {
		Records []DecisionRecord `json:"records"`
	}

	if err := c.system(ctx, "recent", payload, &reply); err != nil {
		return nil, err
	}

	return reply.Records, nil
}

// Shutdown asks the daemon to stop gracefully. Returns once the daemon
// acknowledges; actual teardown continues in the background.
func (c *Client) Shutdown(ctx context.Context) error {
	var ack struct {
		Status string `json:"status"`
	}

	if err := c.system(ctx, "shutdown", nil, &ack); err != nil {
		return err
	}

	if ack.Status != "shutting_down" {
		return errors.Newf("unexpected shutdown acknowledgement %q", ack.Status)
	}

	return nil
}

// Raw sends one verbatim protocol line and returns the verbatim reply.
// The trailing newline is appended if missing.
func (c *Client) Raw(ctx context.Context, line []byte) ([]byte, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if !bytes.HasSuffix(line, []byte("\n")) {
		line = append(append([]byte(nil), line...), '\n')
	}

	if _, err := conn.Write(line); err != nil {
		return nil, errors.Wrap(err, "failed to write request")
	}

	reply, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, errors.Wrap(err, "failed to read reply")
	}

	return bytes.TrimSuffix(reply, []byte("\n")), nil
}

// system runs one control-plane command and decodes the reply into out.
func (c *Client) system(ctx context.Context, command string, extra map[string]any, out any) error {
	payload := map[string]any{"command": command}
	for key, value := range extra {
		payload[key] = value
	}

	line, err := c.roundTrip(ctx, request{
		Event:     systemEvent,
		HookInput: payload,
		RequestID: uuid.New().String(),
	})
	if err != nil {
		return err
	}

	if err := serverError(line); err != nil {
		return err
	}

	if err := json.Unmarshal(line, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s reply", command)
	}

	return nil
}

// roundTrip opens a connection, sends one request line, and reads one
// reply line.
func (c *Client) roundTrip(ctx context.Context, req request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	return c.Raw(ctx, data)
}

// dial connects to the daemon socket, honoring the context deadline for
// the whole exchange when one is set.
func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.dialTimeout}

	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to daemon at %s", c.socketPath)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()

			return nil, errors.Wrap(err, "failed to set connection deadline")
		}
	}

	return conn, nil
}

// serverError reports the structured error carried in a reply, if any.
func serverError(line []byte) error {
	var probe struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}

	if err := json.Unmarshal(line, &probe); err != nil {
		return errors.Wrap(err, "failed to decode reply")
	}

	if probe.Error != "" {
		return &ServerError{
			Message:   probe.Error,
			RequestID: probe.RequestID,
		}
	}

	return nil
}
