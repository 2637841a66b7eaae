package hookresponse

import (
	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/hook"
)

// Envelope is the socket-protocol success reply: the event-facing response
// fields inline at the top level, augmented with the request correlation
// id, the bare result, timing, and the matched-handler list.
type Envelope struct {
	Response

	// RequestID echoes the caller-supplied correlation id.
	RequestID string `json:"request_id"`

	// Result is the bare merged result, independent of the event-facing
	// shape above.
	Result *EnvelopeResult `json:"result"`

	// TimingMS is the chain execution time in milliseconds.
	TimingMS float64 `json:"timing_ms"`

	// HandlersMatched lists handlers that considered the input relevant.
	HandlersMatched []string `json:"handlers_matched"`
}

// EnvelopeResult is the bare decision block inside the envelope.
type EnvelopeResult struct {
	Decision string   `json:"decision"`
	Reason   string   `json:"reason,omitempty"`
	Context  []string `json:"context,omitempty"`
}

// NewEnvelope builds the protocol reply for one dispatched request. A nil
// result is the implicit allow.
func NewEnvelope(requestID string, result *handler.Result, eventType hook.EventType, timingMS float64) *Envelope {
	if result == nil {
		result = handler.Allow()
	}

	matched := result.HandlersMatched
	if matched == nil {
		matched = []string{}
	}

	return &Envelope{
		Response:  *Format(result, eventType),
		RequestID: requestID,
		Result: &EnvelopeResult{
			Decision: result.Decision.String(),
			Reason:   result.Reason,
			Context:  result.Context,
		},
		TimingMS:        timingMS,
		HandlersMatched: matched,
	}
}

// ErrorResponse is the protocol reply for requests that never dispatched:
// malformed JSON (no request id could be parsed) or structurally invalid
// requests (id echoed when available).
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
