package toolbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/germanamz/pairloop/pkg/chats/content"
)

// ToolBox is the tool registry. Tools are registered once at startup and the
// set is treated as immutable for the duration of a run. Agents use ToolBox
// to declare tools to the model and to execute tool calls.
type ToolBox struct {
	tools map[string]Tool
}

// Output is the outcome of a dispatched tool. Handler failures never escape
// as errors; they are reported with IsError set and Err carrying the
// *ExecutionError for callers that want to inspect it.
type Output struct {
	Content string
	IsError bool
	Err     error
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{
		tools: make(map[string]Tool),
	}
}

// Register adds one or more tools to the ToolBox. It stops at the first tool
// whose name is empty or already registered; tools before it stay registered.
func (tb *ToolBox) Register(tools ...Tool) error {
	for _, t := range tools {
		if t.Name == "" {
			return errors.New("toolbox: tool name is empty")
		}
		if _, dup := tb.tools[t.Name]; dup {
			return &DuplicateToolError{Name: t.Name}
		}
		tb.tools[t.Name] = t
	}
	return nil
}

// Tools returns all registered tools sorted by name.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Len returns the number of registered tools.
func (tb *ToolBox) Len() int { return len(tb.tools) }

// Dispatch invokes the named tool. It returns an *UnknownToolError when the
// name is not registered. Errors and panics raised by the handler are
// converted into an error Output carrying a structured status payload.
func (tb *ToolBox) Dispatch(ctx context.Context, name string, input json.RawMessage) (Output, error) {
	t, ok := tb.tools[name]
	if !ok {
		return Output{}, &UnknownToolError{Name: name}
	}

	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	result, err := invoke(ctx, t, input)
	if err != nil {
		execErr := &ExecutionError{Name: name, Err: err}
		return Output{
			Content: ErrorContent(err.Error()),
			IsError: true,
			Err:     execErr,
		}, nil
	}

	return Output{Content: result}, nil
}

// Call executes a tool call and returns a ToolResult. It never fails: unknown
// tools and handler errors produce a result with IsError set.
func (tb *ToolBox) Call(ctx context.Context, tc content.ToolCall) content.ToolResult {
	out, err := tb.Dispatch(ctx, tc.Name, json.RawMessage(tc.Arguments))
	if err != nil {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Name:       tc.Name,
			Content:    ErrorContent(err.Error()),
			IsError:    true,
		}
	}

	return content.ToolResult{
		ToolCallID: tc.ID,
		Name:       tc.Name,
		Content:    out.Content,
		IsError:    out.IsError,
	}
}

// invoke runs the handler, converting a panic into an error.
func invoke(ctx context.Context, t Tool, input json.RawMessage) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if t.Handler == nil {
		return "", errors.New("handler is nil")
	}

	return t.Handler(ctx, input)
}
