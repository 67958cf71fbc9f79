package toolbox

import (
	"encoding/json"
	"fmt"
)

// DuplicateToolError is returned by Register when a tool name is already taken.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("toolbox: duplicate tool %q", e.Name)
}

// UnknownToolError is returned by Dispatch when no tool has the requested name.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}

// ExecutionError wraps a handler failure, including recovered panics.
type ExecutionError struct {
	Name string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Name, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Status is the structured envelope tools use to report outcomes as data.
type Status struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ErrorContent renders msg as a {"status":"error","message":...} payload.
func ErrorContent(msg string) string {
	data, err := json.Marshal(Status{Status: "error", Message: msg})
	if err != nil {
		return `{"status":"error"}`
	}
	return string(data)
}
