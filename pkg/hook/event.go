// Package hook provides the core event and input types for agent hook dispatch.
package hook

import (
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate enumer -type=EventType -trimprefix=EventType -json -text -yaml -sql
//go:generate go run github.com/smykla-skalski/hookd/tools/enumerfix eventtype_enumer.go

// EventType represents the type of hook event. The set is closed and known
// at startup; the router owns exactly one chain per routable type.
type EventType int

const (
	// EventTypeUnknown represents an unknown event type.
	EventTypeUnknown EventType = iota

	// EventTypePreToolUse is emitted before a tool is executed.
	EventTypePreToolUse

	// EventTypePostToolUse is emitted after a tool has executed.
	EventTypePostToolUse

	// EventTypePermissionRequest is emitted when the agent asks for permission.
	EventTypePermissionRequest

	// EventTypeUserPromptSubmit is emitted when the user submits a prompt.
	EventTypeUserPromptSubmit

	// EventTypeNotification is emitted for user-facing notifications.
	EventTypeNotification

	// EventTypeStop is emitted when the main agent loop is stopping.
	EventTypeStop

	// EventTypeSubagentStop is emitted when a subagent is stopping.
	EventTypeSubagentStop

	// EventTypeSessionStart is emitted when a session begins.
	EventTypeSessionStart

	// EventTypeSessionEnd is emitted when a session ends.
	EventTypeSessionEnd

	// EventTypePreCompact is emitted before transcript compaction.
	EventTypePreCompact
)

// RoutableEventTypes returns every event type the router owns a chain for,
// excluding Unknown.
func RoutableEventTypes() []EventType {
	values := EventTypeValues()
	routable := make([]EventType, 0, len(values)-1)

	for _, et := range values {
		if et == EventTypeUnknown {
			continue
		}

		routable = append(routable, et)
	}

	return routable
}

// ParseEventType resolves an event-type name that may arrive in either
// PascalCase ("PreToolUse") or snake_case ("pre_tool_use"), case-insensitively.
// Unknown is not a routable type and is rejected.
func ParseEventType(name string) (EventType, error) {
	eventType, err := EventTypeString(strings.ReplaceAll(name, "_", ""))
	if err != nil {
		return EventTypeUnknown, errors.Newf("unknown event type %q", name)
	}

	if eventType == EventTypeUnknown {
		return EventTypeUnknown, errors.Newf("event type %q is not routable", name)
	}

	return eventType, nil
}

// Event is one dispatchable hook request: the event type, the parsed input,
// and the caller-supplied request id (echoed in replies). Read-only for the
// lifetime of dispatch.
type Event struct {
	// Type is the event type the chain is selected by.
	Type EventType

	// Input is the parsed hook input; never mutated by handlers.
	Input *Input

	// RequestID is the optional caller-supplied correlation id.
	RequestID string
}
