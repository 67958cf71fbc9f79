package agent

import (
	"context"
	"log/slog"

	"github.com/germanamz/pairloop/pkg/chats/message"
	"github.com/germanamz/pairloop/pkg/chats/role"
	"github.com/germanamz/pairloop/pkg/tools/toolbox"
)

// DefaultAutoReply is sent back to the reasoner when it answers without
// calling a tool and without terminating.
const DefaultAutoReply = "Continue. Reply TERMINATE when the task is complete."

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	Terminator Terminator   // Defaults to SuffixSentinel(DefaultSentinel).
	AutoReply  string       // Defaults to DefaultAutoReply.
	Notifier   Notifier     // Receives tool call events.
	Logger     *slog.Logger // Defaults to slog.Default().
}

// Response is the executor's reaction to one reasoner message.
type Response struct {
	// Terminate is set when the message ended the conversation; Messages is
	// then empty.
	Terminate bool
	// Messages holds one executor message per tool result, in call order,
	// or the single auto-reply.
	Messages []message.Message
}

// Executor acts on reasoner messages: it runs requested tools through the
// registry, detects termination, and otherwise auto-replies.
type Executor struct {
	name  string
	tools *toolbox.ToolBox
	opts  ExecutorOptions
}

// NewExecutor creates an Executor dispatching through tools. A nil registry
// behaves as an empty one.
func NewExecutor(name string, tools *toolbox.ToolBox, opts ExecutorOptions) *Executor {
	if tools == nil {
		tools = toolbox.New()
	}
	if opts.Terminator == nil {
		opts.Terminator = SuffixSentinel(DefaultSentinel)
	}
	if opts.AutoReply == "" {
		opts.AutoReply = DefaultAutoReply
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Executor{name: name, tools: tools, opts: opts}
}

// Name returns the executor's sender name.
func (e *Executor) Name() string { return e.name }

// Terminates reports whether msg ends the conversation. Tool calls take
// precedence over a sentinel in the same message.
func (e *Executor) Terminates(msg message.Message) bool {
	return !msg.HasToolCalls() && e.opts.Terminator.Terminated(msg)
}

// Respond reacts to a reasoner message. Tool calls run sequentially in
// request order; failures become error results rather than errors.
func (e *Executor) Respond(ctx context.Context, msg message.Message) Response {
	calls := msg.ToolCalls()

	if len(calls) == 0 {
		if e.opts.Terminator.Terminated(msg) {
			return Response{Terminate: true}
		}

		return Response{Messages: []message.Message{message.NewText(e.name, role.Executor, e.opts.AutoReply)}}
	}

	msgs := make([]message.Message, 0, len(calls))

	for _, tc := range calls {
		notify(ctx, e.opts.Notifier, Event{Kind: EventToolCallStart, ToolCall: tc})

		result := e.tools.Call(ctx, tc)

		if result.IsError {
			e.opts.Logger.WarnContext(ctx, "tool call failed", "tool", tc.Name, "result", result.Content)
		} else {
			e.opts.Logger.DebugContext(ctx, "tool call", "tool", tc.Name)
		}

		notify(ctx, e.opts.Notifier, Event{Kind: EventToolCallEnd, ToolCall: tc, ToolResult: result})

		msgs = append(msgs, message.New(e.name, role.Executor, result))
	}

	return Response{Messages: msgs}
}
