// Command pairloop runs a bounded conversation between a reasoning agent and
// a tool-executing agent for a single task.
//
// Usage:
//
//	pairloop [task words...]
//
// With no arguments the task is read from an interactive prompt.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/germanamz/pairloop/pkg/engine"
)

const (
	envConfigPath  = "PAIRLOOP_CONFIG"
	envLogLevel    = "PAIRLOOP_LOG_LEVEL"
	defaultEnvFile = ".env"
)

func main() {
	if err := loadDotEnv(defaultEnvFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log, err := newLogger(os.Stderr, os.Getenv(envLogLevel))
	if err != nil {
		return err
	}

	cfg, err := engine.FindConfig(os.Getenv(envConfigPath))
	if err != nil {
		return err
	}

	rc, err := cfg.Resolve()
	if err != nil {
		return err
	}

	eng, err := engine.New(rc, engine.WithLogger(log))
	if err != nil {
		return err
	}

	task := strings.TrimSpace(strings.Join(args, " "))
	if task == "" {
		if task, err = promptTask(); err != nil {
			return err
		}
	}

	p := newPrinter(os.Stdout, terminalWidth())
	p.header(rc)

	sub := eng.Events().Subscribe(256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range sub.C {
			p.event(e)
		}
	}()

	start := time.Now()
	res, runErr := eng.Run(ctx, task)

	eng.Events().Unsubscribe(sub)
	<-done

	p.dropped(sub.Dropped())

	if runErr != nil {
		return runErr
	}

	p.summary(res, eng.Completer(), time.Since(start))

	return nil
}
