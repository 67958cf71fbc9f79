package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/germanamz/pairloop/pkg/agent"
	"github.com/germanamz/pairloop/pkg/agentctx"
	"github.com/germanamz/pairloop/pkg/modeladapter"
	"github.com/germanamz/pairloop/pkg/tools/builtin"
	"github.com/germanamz/pairloop/pkg/tools/email"
	"github.com/germanamz/pairloop/pkg/tools/toolbox"
)

// Agent names used in transcripts, logs, and events.
const (
	ReasonerName  = "assistant"
	ExecutorName  = "user_proxy"
	MainAgent     = "pairloop"
	FormatterName = "formatter"
)

// Engine assembles a backend, a tool registry, and an event bus from a
// RunConfig and runs conversations with them. Each Run uses a fresh
// Orchestrator and transcript.
type Engine struct {
	cfg       RunConfig
	events    *EventBus
	completer modeladapter.Completer
	tools     *toolbox.ToolBox
	log       *slog.Logger

	mu     sync.Mutex
	nextID int
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	log       *slog.Logger
	completer modeladapter.Completer
	deliverer email.Deliverer
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithCompleter replaces the backend built from the config.
func WithCompleter(c modeladapter.Completer) Option {
	return func(o *options) { o.completer = c }
}

// WithDeliverer replaces the Resend deliverer used by send_email.
func WithDeliverer(d email.Deliverer) Option {
	return func(o *options) { o.deliverer = d }
}

// New creates an Engine. Tool registration errors, such as duplicate names,
// are fatal.
func New(cfg RunConfig, opts ...Option) (*Engine, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}

	e := &Engine{
		cfg:       cfg,
		events:    NewEventBus(),
		completer: o.completer,
		log:       o.log,
	}

	if e.completer == nil {
		c, err := buildCompleter(cfg.Backend)
		if err != nil {
			return nil, err
		}
		e.completer = c
	}

	var setOpts []builtin.Option
	if cfg.Email.Enabled {
		d := o.deliverer
		if d == nil {
			d = email.NewResend(cfg.Email.APIKey)
		}

		emailOpts := []email.Option{email.WithLogger(e.log)}
		if cfg.Email.Format {
			emailOpts = append(emailOpts, email.WithFormatter(&nestedFormatter{engine: e}))
		}

		setOpts = append(setOpts, builtin.WithEmail(email.NewSender(cfg.Email.From, d, emailOpts...)))
	}

	e.tools = toolbox.New()
	if err := builtin.New(setOpts...).Register(e.tools, cfg.Tools...); err != nil {
		return nil, fmt.Errorf("engine: register tools: %w", err)
	}

	return e, nil
}

// Config returns the resolved configuration.
func (e *Engine) Config() RunConfig { return e.cfg }

// Events returns the engine's event bus.
func (e *Engine) Events() *EventBus { return e.events }

// ToolBox returns the registry shared by every run.
func (e *Engine) ToolBox() *toolbox.ToolBox { return e.tools }

// Completer returns the reasoning-engine backend.
func (e *Engine) Completer() modeladapter.Completer { return e.completer }

// NewOrchestrator builds the main reasoner/executor pair for one run.
func (e *Engine) NewOrchestrator() *agent.Orchestrator {
	reasoner := agent.NewReasoner(ReasonerName, e.completer, agent.ReasonerOptions{
		SystemPrompt: e.cfg.SystemPrompt,
		Tools:        e.tools.Tools(),
		Timeout:      e.cfg.Timeout,
		Logger:       e.log,
	})

	executor := agent.NewExecutor(ExecutorName, e.tools, agent.ExecutorOptions{
		Terminator: agent.SuffixSentinel(e.cfg.Sentinel),
		AutoReply:  e.cfg.AutoReply,
		Notifier:   e.events,
		Logger:     e.log,
	})

	middleware := []agent.Middleware{agent.Recovery(), agent.Logger(e.log, MainAgent)}
	if e.cfg.RunTimeout > 0 {
		middleware = append(middleware, agent.Timeout(e.cfg.RunTimeout))
	}

	return agent.New(MainAgent, reasoner, executor, agent.Options{
		MaxAutoReplies: e.cfg.MaxAutoReplies,
		TurnRetries:    e.cfg.TurnRetries,
		RetryDelay:     e.cfg.RetryDelay,
		Middleware:     middleware,
		Notifier:       e.events,
		Logger:         e.log,
	})
}

// Run executes one conversation for task and returns its outcome.
func (e *Engine) Run(ctx context.Context, task string) (agent.Result, error) {
	e.mu.Lock()
	e.nextID++
	id := fmt.Sprintf("run-%d", e.nextID)
	e.mu.Unlock()

	ctx = agentctx.WithRunID(ctx, id)

	e.events.Publish(Event{
		Kind:      EventRunStart,
		RunID:     id,
		Agent:     MainAgent,
		Timestamp: time.Now(),
		Data:      task,
	})

	return e.NewOrchestrator().Run(ctx, task)
}

// errEmptyFormat makes the nested formatter fall back to the plain body.
var errEmptyFormat = errors.New("engine: formatter returned no content")

// nestedFormatter renders an email body as HTML by running a short,
// isolated reasoner/executor exchange with no tools.
type nestedFormatter struct {
	engine *Engine
}

// Format implements email.Formatter.
func (f *nestedFormatter) Format(ctx context.Context, subject, body string) (string, error) {
	cfg := f.engine.cfg

	reasoner := agent.NewReasoner(FormatterName, f.engine.completer, agent.ReasonerOptions{
		SystemPrompt: formatterSystemPrompt(cfg.Email.SenderName, cfg.Email.SenderTitle, cfg.Sentinel),
		Timeout:      cfg.Timeout,
		Logger:       f.engine.log,
	})

	executor := agent.NewExecutor(FormatterName+"_user", nil, agent.ExecutorOptions{
		Terminator: agent.ContainsSentinel(cfg.Sentinel),
		AutoReply:  cfg.AutoReply,
		Logger:     f.engine.log,
	})

	orch := agent.New(FormatterName, reasoner, executor, agent.Options{
		MaxAutoReplies: 1,
		TurnRetries:    cfg.TurnRetries,
		RetryDelay:     cfg.RetryDelay,
		Notifier:       f.engine.events,
		Logger:         f.engine.log,
		Middleware: []agent.Middleware{
			agent.Recovery(),
			agent.Logger(f.engine.log, FormatterName),
			agent.OutputGuardrail(func(r agent.Result) error {
				if agent.StripSentinel(r.Answer(), cfg.Sentinel) == "" {
					return errEmptyFormat
				}
				return nil
			}),
		},
	})

	res, err := orch.Run(ctx, formatterRequest(subject, body))
	if err != nil {
		return "", err
	}

	return agent.StripSentinel(res.Answer(), cfg.Sentinel), nil
}
