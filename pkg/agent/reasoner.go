package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/germanamz/pairloop/pkg/chats/message"
	"github.com/germanamz/pairloop/pkg/chats/role"
	"github.com/germanamz/pairloop/pkg/modeladapter"
	"github.com/germanamz/pairloop/pkg/tools/toolbox"
)

// ReasonerOptions configures a Reasoner.
type ReasonerOptions struct {
	SystemPrompt string         // Sent ahead of the transcript on every turn.
	Tools        []toolbox.Tool // Declarations the model may call.
	Timeout      time.Duration  // Per-request deadline (0 = none).
	Logger       *slog.Logger   // Defaults to slog.Default().
}

// Reasoner produces the next reasoner message from the transcript by
// querying a reasoning engine. It never executes tools itself.
type Reasoner struct {
	name      string
	completer modeladapter.Completer
	opts      ReasonerOptions
}

// NewReasoner creates a Reasoner backed by completer.
func NewReasoner(name string, completer modeladapter.Completer, opts ReasonerOptions) *Reasoner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Reasoner{name: name, completer: completer, opts: opts}
}

// Name returns the reasoner's sender name.
func (r *Reasoner) Name() string { return r.name }

// Next sends the system prompt, transcript, and tool declarations to the
// engine and returns its reply. A request that outlives the per-request
// timeout fails with modeladapter.ErrTurnTimeout.
func (r *Reasoner) Next(ctx context.Context, transcript []message.Message) (message.Message, error) {
	turnCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	reply, err := r.completer.Complete(turnCtx, modeladapter.Request{
		System:   r.opts.SystemPrompt,
		Messages: transcript,
		Tools:    r.opts.Tools,
	})
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return message.Message{}, err
		case turnCtx.Err() != nil && !errors.Is(err, modeladapter.ErrTurnTimeout):
			return message.Message{}, fmt.Errorf("%w: %w", modeladapter.ErrTurnTimeout, err)
		default:
			return message.Message{}, modeladapter.ClassifyTimeout(err)
		}
	}

	reply.Sender = r.name
	reply.Role = role.Reasoner

	if ur, ok := r.completer.(modeladapter.UsageReporter); ok {
		if last, ok := ur.UsageTracker().Last(); ok {
			r.opts.Logger.DebugContext(ctx, "reasoner turn", "tokens", last, "tool_calls", len(reply.ToolCalls()))
		}
	}

	return reply, nil
}
