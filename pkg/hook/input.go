package hook

import "encoding/json"

//go:generate enumer -type=ToolType -trimprefix=ToolType -json -text -yaml -sql
//go:generate go run github.com/smykla-skalski/hookd/tools/enumerfix tooltype_enumer.go

// ToolType represents the type of tool being invoked.
type ToolType int

const (
	// ToolTypeUnknown represents an unrecognized tool.
	ToolTypeUnknown ToolType = iota

	// ToolTypeBash represents the Bash tool for executing shell commands.
	ToolTypeBash

	// ToolTypeWrite represents the Write tool for creating files.
	ToolTypeWrite

	// ToolTypeEdit represents the Edit tool for modifying files.
	ToolTypeEdit

	// ToolTypeMultiEdit represents the MultiEdit tool for batched edits.
	ToolTypeMultiEdit

	// ToolTypeRead represents the Read tool for reading files.
	ToolTypeRead

	// ToolTypeGrep represents the Grep tool for searching files.
	ToolTypeGrep

	// ToolTypeGlob represents the Glob tool for finding files by pattern.
	ToolTypeGlob

	// ToolTypeTask represents the Task tool for spawning subagents.
	ToolTypeTask

	// ToolTypeWebFetch represents the WebFetch tool for retrieving URLs.
	ToolTypeWebFetch

	// ToolTypeWebSearch represents the WebSearch tool for web queries.
	ToolTypeWebSearch

	// ToolTypeNotebookEdit represents the NotebookEdit tool for notebooks.
	ToolTypeNotebookEdit
)

// ToolInput contains the tool-specific input parameters.
type ToolInput struct {
	// Command is the shell command for the Bash tool.
	Command string `json:"command,omitempty"`

	// FilePath is the file path for file operations.
	FilePath string `json:"file_path,omitempty"`

	// Path is an alternative field for file path.
	Path string `json:"path,omitempty"`

	// Content is the file content for the Write tool.
	Content string `json:"content,omitempty"`

	// OldString is the string to replace for the Edit tool.
	OldString string `json:"old_string,omitempty"`

	// NewString is the replacement string for the Edit tool.
	NewString string `json:"new_string,omitempty"`

	// Pattern is the search pattern for Grep/Glob tools.
	Pattern string `json:"pattern,omitempty"`

	// URL is the target for WebFetch.
	URL string `json:"url,omitempty"`
}

// Input is the open, partially-typed bag of event-specific fields carried by
// one hook request. Constructed fresh per request from the parsed body;
// immutable once built; never mutated by handlers.
type Input struct {
	// SessionID is the unique identifier for the agent session.
	SessionID string `json:"session_id,omitempty"`

	// TranscriptPath is the path to the session transcript file.
	TranscriptPath string `json:"transcript_path,omitempty"`

	// Cwd is the working directory the agent reported.
	Cwd string `json:"cwd,omitempty"`

	// PermissionMode is the agent's current permission mode.
	PermissionMode string `json:"permission_mode,omitempty"`

	// ToolName is the raw tool name as submitted (tool events only).
	ToolName string `json:"tool_name,omitempty"`

	// ToolUseID is the unique identifier for this tool invocation.
	ToolUseID string `json:"tool_use_id,omitempty"`

	// ToolInput contains the tool-specific input parameters.
	ToolInput ToolInput `json:"tool_input,omitempty"`

	// ToolResponse is the raw tool output (PostToolUse only).
	ToolResponse json.RawMessage `json:"tool_response,omitempty"`

	// Prompt is the submitted prompt text (UserPromptSubmit only).
	Prompt string `json:"prompt,omitempty"`

	// Message is the notification text (Notification only).
	Message string `json:"message,omitempty"`

	// StopHookActive reports whether a stop hook is already running
	// (Stop/SubagentStop only).
	StopHookActive bool `json:"stop_hook_active,omitempty"`

	// Source is the session start source (SessionStart only).
	Source string `json:"source,omitempty"`

	// Reason is the session end reason (SessionEnd only).
	Reason string `json:"reason,omitempty"`

	// Trigger is the compaction trigger (PreCompact only).
	Trigger string `json:"trigger,omitempty"`

	// CustomInstructions carries compaction instructions (PreCompact only).
	CustomInstructions string `json:"custom_instructions,omitempty"`

	// Raw preserves the original hook_input object for fields the typed
	// view does not cover.
	Raw json.RawMessage `json:"-"`
}

// ParseInput builds an Input from a raw hook_input object.
func ParseInput(data []byte) (*Input, error) {
	input := &Input{}
	if err := json.Unmarshal(data, input); err != nil {
		return nil, err
	}

	input.Raw = append(json.RawMessage(nil), data...)

	return input, nil
}

// Tool returns the parsed tool type, ToolTypeUnknown for unrecognized names.
func (in *Input) Tool() ToolType {
	tool, err := ToolTypeString(in.ToolName)
	if err != nil {
		return ToolTypeUnknown
	}

	return tool
}

// Command returns the shell command from the tool input.
func (in *Input) Command() string {
	return in.ToolInput.Command
}

// FilePath returns the file path, preferring file_path over path.
func (in *Input) FilePath() string {
	if in.ToolInput.FilePath != "" {
		return in.ToolInput.FilePath
	}

	return in.ToolInput.Path
}

// Content returns the file content from the tool input.
func (in *Input) Content() string {
	return in.ToolInput.Content
}

// IsBashTool returns true if the tool is Bash.
func (in *Input) IsBashTool() bool {
	return in.Tool() == ToolTypeBash
}

// IsFileTool returns true if the tool writes files (Write, Edit, MultiEdit,
// NotebookEdit).
func (in *Input) IsFileTool() bool {
	switch in.Tool() {
	case ToolTypeWrite, ToolTypeEdit, ToolTypeMultiEdit, ToolTypeNotebookEdit:
		return true
	default:
		return false
	}
}

// HasSessionID returns true if a session ID is present.
func (in *Input) HasSessionID() bool {
	return in.SessionID != ""
}
