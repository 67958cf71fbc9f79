package agent

import (
	"context"

	"github.com/germanamz/pairloop/pkg/chats/content"
	"github.com/germanamz/pairloop/pkg/chats/message"
)

// EventKind identifies a conversation event.
type EventKind string

const (
	EventMessageAdded  EventKind = "message_added"
	EventToolCallStart EventKind = "tool_call_start"
	EventToolCallEnd   EventKind = "tool_call_end"
	EventTurnRetry     EventKind = "turn_retry"
	EventRunEnd        EventKind = "run_end"
	EventError         EventKind = "error"
)

// Event describes something that happened during a run. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind       EventKind
	Message    message.Message
	ToolCall   content.ToolCall
	ToolResult content.ToolResult
	State      State
	Err        error
}

// Notifier receives events synchronously from the run goroutine.
// Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, e Event)

// Notify calls f(ctx, e).
func (f NotifierFunc) Notify(ctx context.Context, e Event) { f(ctx, e) }

func notify(ctx context.Context, n Notifier, e Event) {
	if n != nil {
		n.Notify(ctx, e)
	}
}
