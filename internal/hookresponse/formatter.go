package hookresponse

import (
	"strings"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/pkg/hook"
)

// contextSeparator joins context lines in additionalContext. A blank line
// keeps multi-paragraph context readable in the agent transcript.
const contextSeparator = "\n\n"

// Format renders a merged handler result into the wire shape for the given
// event type. It is pure: same inputs, same output, no side effects.
//
// Every event type shares one short-circuit: an allow with no context and
// no guidance renders as the empty object, so the common case stays
// completely silent on the wire.
func Format(result *handler.Result, eventType hook.EventType) *Response {
	if result == nil {
		return &Response{}
	}

	if result.Decision == handler.DecisionAllow && len(result.Context) == 0 && result.Guidance == "" {
		return &Response{}
	}

	switch eventType {
	case hook.EventTypePostToolUse:
		return formatPostToolUse(result)
	case hook.EventTypeStop, hook.EventTypeSubagentStop:
		return formatStop(result)
	case hook.EventTypePermissionRequest:
		return formatPermissionRequest(result)
	default:
		// PreToolUse plus the context-only events (SessionStart,
		// SessionEnd, PreCompact, UserPromptSubmit, Notification). A
		// deny/ask on a context-only event renders the permission shape
		// anyway: the caller's schema validation will reject it, which
		// surfaces the misbehaving handler instead of hiding it.
		return formatPermissionWrapper(result, eventType)
	}
}

// formatPermissionWrapper renders the hookSpecificOutput wrapper with the
// flat permissionDecision fields for deny/ask results.
func formatPermissionWrapper(result *handler.Result, eventType hook.EventType) *Response {
	output := &HookSpecificOutput{HookEventName: eventType.String()}

	if result.Decision.Blocks() {
		output.PermissionDecision = result.Decision.String()
		output.PermissionDecisionReason = result.Reason
	}

	output.AdditionalContext = joinContext(result.Context)
	output.Guidance = result.Guidance

	if output.empty() {
		return &Response{}
	}

	return &Response{HookSpecificOutput: output}
}

// formatPostToolUse renders the post-tool contract: the verdict lives at
// the top level ("block", deny only), while the wrapper carries only
// context and guidance and is included only when it has content.
func formatPostToolUse(result *handler.Result) *Response {
	response := &Response{}

	if result.Decision == handler.DecisionDeny {
		response.Decision = decisionBlock
		response.Reason = result.Reason
	}

	output := &HookSpecificOutput{
		HookEventName:     hook.EventTypePostToolUse.String(),
		AdditionalContext: joinContext(result.Context),
		Guidance:          result.Guidance,
	}

	if !output.empty() {
		response.HookSpecificOutput = output
	}

	return response
}

// formatStop renders the Stop/SubagentStop contract: top-level "block"
// with reason for deny, nothing else. These two event types never emit
// the wrapper, even when context or guidance were set.
func formatStop(result *handler.Result) *Response {
	response := &Response{}

	if result.Decision == handler.DecisionDeny {
		response.Decision = decisionBlock
		response.Reason = result.Reason
	}

	return response
}

// formatPermissionRequest renders the PermissionRequest contract: the
// decision nests inside the wrapper as {behavior, message}.
func formatPermissionRequest(result *handler.Result) *Response {
	output := &HookSpecificOutput{HookEventName: hook.EventTypePermissionRequest.String()}

	// continue has no behavior mapping in the permission payload.
	if result.Decision != handler.DecisionContinue {
		output.Decision = &PermissionBehavior{
			Behavior: result.Decision.String(),
			Message:  result.Reason,
		}
	}

	output.AdditionalContext = joinContext(result.Context)
	output.Guidance = result.Guidance

	if output.empty() {
		return &Response{}
	}

	return &Response{HookSpecificOutput: output}
}

// joinContext flattens context lines into the additionalContext field.
func joinContext(context []string) string {
	if len(context) == 0 {
		return ""
	}

	return strings.Join(context, contextSeparator)
}
