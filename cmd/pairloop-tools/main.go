// Command pairloop-tools serves the pairloop tool registry over MCP on
// stdin/stdout, so other MCP clients can call calculator and send_email with
// the same validation and error payloads the executor uses.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/germanamz/pairloop/pkg/engine"
	"github.com/germanamz/pairloop/pkg/tools/mcpserver"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// stdout carries the protocol; logs go to stderr only.
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo, NoColor: true}))

	cfg, err := engine.FindConfig(os.Getenv("PAIRLOOP_CONFIG"))
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

	log.Info("serving tools over stdio", "tools", eng.ToolBox().Len())

	return mcpserver.New("pairloop-tools", version, eng.ToolBox(), log).Serve(ctx, os.Stdin, os.Stdout)
}
