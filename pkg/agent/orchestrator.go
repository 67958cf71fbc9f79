// Package agent runs a bounded two-party conversation: a Reasoner that
// queries a reasoning engine and an Executor that runs the tools it asks
// for. The Orchestrator alternates between them until the reasoner
// terminates or the auto-reply budget is spent.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/germanamz/pairloop/pkg/agentctx"
	"github.com/germanamz/pairloop/pkg/chats/chat"
	"github.com/germanamz/pairloop/pkg/chats/message"
	"github.com/germanamz/pairloop/pkg/chats/role"
	"github.com/germanamz/pairloop/pkg/modeladapter"
)

// ErrAlreadyRun is returned when Run is called on an orchestrator that has
// already started a conversation.
var ErrAlreadyRun = errors.New("agent: orchestrator already ran")

// State is the lifecycle state of a conversation.
type State int

const (
	// StateRunning is the initial state; it is also reported when a run
	// aborts with an error.
	StateRunning State = iota
	// StateTerminated means the reasoner emitted the termination sentinel.
	StateTerminated
	// StateExhausted means the auto-reply budget ran out first.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "RUNNING"
	case StateTerminated:
		return "TERMINATED"
	case StateExhausted:
		return "EXHAUSTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TurnError reports a reasoner turn that could not be completed.
type TurnError struct {
	Turn     int // 1-based reasoner turn.
	Attempts int
	Err      error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("agent: reasoner turn %d failed after %d attempt(s): %v", e.Turn, e.Attempts, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// Options configures an Orchestrator.
type Options struct {
	MaxAutoReplies int           // Executor turns allowed before EXHAUSTED (< 0 treated as 0).
	TurnRetries    int           // Extra attempts for a timed-out or rate-limited turn.
	RetryDelay     time.Duration // Base delay between attempts, doubled each retry.
	Middleware     []Middleware  // Applied around Run().
	Notifier       Notifier
	Logger         *slog.Logger // Defaults to slog.Default().
}

// Result is the outcome of a run.
type Result struct {
	State       State
	Transcript  []message.Message
	AutoReplies int
	// Last is the final reasoner message, if any.
	Last message.Message
}

// Answer returns the text of the final reasoner message.
func (r Result) Answer() string { return r.Last.TextContent() }

// Orchestrator owns the transcript and drives the reasoner/executor loop.
// It runs at most once.
type Orchestrator struct {
	name     string
	reasoner *Reasoner
	executor *Executor
	opts     Options

	mu      sync.Mutex
	chat    *chat.Chat
	state   State
	started bool
}

// New creates an Orchestrator.
func New(name string, reasoner *Reasoner, executor *Executor, opts Options) *Orchestrator {
	if opts.MaxAutoReplies < 0 {
		opts.MaxAutoReplies = 0
	}
	if opts.TurnRetries < 0 {
		opts.TurnRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Orchestrator{
		name:     name,
		reasoner: reasoner,
		executor: executor,
		opts:     opts,
		chat:     chat.New(),
	}
}

// Name returns the orchestrator's name.
func (o *Orchestrator) Name() string { return o.name }

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

// Transcript returns a copy of the messages exchanged so far.
func (o *Orchestrator) Transcript() []message.Message { return o.chat.Messages() }

// Run seeds the transcript with task as an executor message and alternates
// reasoner and executor turns until the conversation terminates or exhausts
// its auto-reply budget. EXHAUSTED is a normal outcome, not an error.
func (o *Orchestrator) Run(ctx context.Context, task string) (Result, error) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return Result{}, ErrAlreadyRun
	}
	o.started = true
	o.mu.Unlock()

	var runner Runner = RunnerFunc(o.run)

	// Apply middleware in reverse order so the first middleware is outermost.
	for i := len(o.opts.Middleware) - 1; i >= 0; i-- {
		runner = o.opts.Middleware[i](runner)
	}

	return runner.Run(ctx, task)
}

func (o *Orchestrator) run(ctx context.Context, task string) (Result, error) {
	ctx = agentctx.WithAgentName(ctx, o.name)

	o.append(ctx, message.NewText(o.executor.Name(), role.Executor, task))

	autoReplies := 0

	for turn := 1; ; turn++ {
		if err := ctx.Err(); err != nil {
			return o.fail(ctx, autoReplies, fmt.Errorf("agent: run cancelled: %w", err))
		}

		reply, err := o.reasonerTurn(ctx, turn)
		if err != nil {
			return o.fail(ctx, autoReplies, err)
		}

		o.append(ctx, reply)

		if o.executor.Terminates(reply) {
			return o.finish(ctx, StateTerminated, autoReplies), nil
		}

		if autoReplies >= o.opts.MaxAutoReplies {
			return o.finish(ctx, StateExhausted, autoReplies), nil
		}

		resp := o.executor.Respond(ctx, reply)
		if resp.Terminate {
			return o.finish(ctx, StateTerminated, autoReplies), nil
		}

		o.append(ctx, resp.Messages...)
		autoReplies++
	}
}

// reasonerTurn asks the reasoner for its next message, retrying recoverable
// failures up to TurnRetries times.
func (o *Orchestrator) reasonerTurn(ctx context.Context, turn int) (message.Message, error) {
	for attempt := 0; ; attempt++ {
		reply, err := o.reasoner.Next(ctx, o.chat.Messages())
		if err == nil {
			return reply, nil
		}

		retry, wait := modeladapter.Retryable(err)
		if !retry || attempt >= o.opts.TurnRetries || ctx.Err() != nil {
			return message.Message{}, &TurnError{Turn: turn, Attempts: attempt + 1, Err: err}
		}

		delay := o.opts.RetryDelay << attempt
		if wait > delay {
			delay = wait
		}

		o.opts.Logger.WarnContext(ctx, "retrying reasoner turn",
			"turn", turn,
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)
		notify(ctx, o.opts.Notifier, Event{Kind: EventTurnRetry, Err: err})

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return message.Message{}, &TurnError{Turn: turn, Attempts: attempt + 1, Err: err}
			case <-timer.C:
			}
		}
	}
}

func (o *Orchestrator) append(ctx context.Context, msgs ...message.Message) {
	o.chat.Append(msgs...)

	for _, m := range msgs {
		notify(ctx, o.opts.Notifier, Event{Kind: EventMessageAdded, Message: m})
	}
}

func (o *Orchestrator) finish(ctx context.Context, state State, autoReplies int) Result {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()

	res := o.result(state, autoReplies)
	notify(ctx, o.opts.Notifier, Event{Kind: EventRunEnd, State: state})

	return res
}

func (o *Orchestrator) fail(ctx context.Context, autoReplies int, err error) (Result, error) {
	notify(ctx, o.opts.Notifier, Event{Kind: EventError, Err: err})

	return o.result(StateRunning, autoReplies), err
}

func (o *Orchestrator) result(state State, autoReplies int) Result {
	res := Result{
		State:       state,
		Transcript:  o.chat.Messages(),
		AutoReplies: autoReplies,
	}

	if last, ok := o.chat.LastByRole(role.Reasoner); ok {
		res.Last = last
	}

	return res
}
