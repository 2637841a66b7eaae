// Package hookresponse renders merged handler results into the JSON shapes
// the agent expects, one shape per event-type family, plus the daemon
// envelope used by the socket protocol.
package hookresponse

// decisionBlock is the top-level decision value for blocking events whose
// wire contract predates the permission-decision wrapper.
const decisionBlock = "block"

// Response is the event-facing JSON structure. A zero Response marshals to
// the empty object, which is the silent-allow shape.
type Response struct {
	// Decision is the top-level decision. Only ever "block", and only for
	// deny results on the event types that use the top-level contract.
	Decision string `json:"decision,omitempty"`

	// Reason accompanies a top-level block decision.
	Reason string `json:"reason,omitempty"`

	// HookSpecificOutput carries the per-event wrapper, when the event
	// family uses one and it has content.
	HookSpecificOutput *HookSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// HookSpecificOutput carries the permission decision and context for the
// agent, keyed by event name.
type HookSpecificOutput struct {
	HookEventName            string              `json:"hookEventName"`
	PermissionDecision       string              `json:"permissionDecision,omitempty"`       // "deny" or "ask"
	PermissionDecisionReason string              `json:"permissionDecisionReason,omitempty"` // shown to the agent
	Decision                 *PermissionBehavior `json:"decision,omitempty"`                 // PermissionRequest only
	AdditionalContext        string              `json:"additionalContext,omitempty"`        // behavioral framing for the agent
	Guidance                 string              `json:"guidance,omitempty"`                 // what to do instead
}

// PermissionBehavior is the nested decision object used by the
// PermissionRequest event family.
type PermissionBehavior struct {
	Behavior string `json:"behavior"`
	Message  string `json:"message,omitempty"`
}

// empty reports whether the wrapper carries nothing beyond the event name.
// The formatter drops empty wrappers entirely.
func (o *HookSpecificOutput) empty() bool {
	return o.PermissionDecision == "" &&
		o.PermissionDecisionReason == "" &&
		o.Decision == nil &&
		o.AdditionalContext == "" &&
		o.Guidance == ""
}
