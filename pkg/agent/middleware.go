package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Runner executes a conversation for a task.
type Runner interface {
	Run(ctx context.Context, task string) (Result, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, task string) (Result, error)

// Run calls the underlying function.
func (f RunnerFunc) Run(ctx context.Context, task string) (Result, error) {
	return f(ctx, task)
}

// Middleware wraps a Runner, returning a new Runner with added behaviour.
type Middleware func(next Runner) Runner

// --- Timeout middleware ---

// Timeout returns a Middleware that bounds the whole run with a deadline.
func Timeout(d time.Duration) Middleware {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context, task string) (Result, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			return next.Run(ctx, task)
		})
	}
}

// --- Recovery middleware ---

// Recovery returns a Middleware that catches panics and converts them to errors.
func Recovery() Middleware {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context, task string) (res Result, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("agent panicked: %v", r)
				}
			}()

			return next.Run(ctx, task)
		})
	}
}

// --- Logger middleware ---

// Logger returns a Middleware that logs run start, outcome, and duration.
func Logger(log *slog.Logger, name string) Middleware {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context, task string) (Result, error) {
			log.InfoContext(ctx, "run started", "agent", name)

			start := time.Now()

			res, err := next.Run(ctx, task)

			duration := time.Since(start)

			if err != nil {
				log.ErrorContext(ctx, "run finished with error",
					"agent", name,
					"duration", duration,
					"error", err,
				)
			} else {
				log.InfoContext(ctx, "run finished",
					"agent", name,
					"state", res.State,
					"auto_replies", res.AutoReplies,
					"duration", duration,
				)
			}

			return res, err
		})
	}
}

// --- OutputGuardrail middleware ---

// OutputGuardrail returns a Middleware that validates a successful result. If
// check returns an error, that error is returned alongside the result.
func OutputGuardrail(check func(Result) error) Middleware {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context, task string) (Result, error) {
			res, err := next.Run(ctx, task)
			if err != nil {
				return res, err
			}

			if checkErr := check(res); checkErr != nil {
				return res, checkErr
			}

			return res, nil
		})
	}
}
