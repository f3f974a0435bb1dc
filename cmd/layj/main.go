package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Set up context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from environment variables:
	// - LAYJ_WORKERS: concurrently running example producers (default: 8)
	// - LAYJ_COMMAND_TIMEOUT_MS: default timeout of manifest commands
	// - LOG_LEVEL, LOG_FILE, ...: see internal/config for all options
	// and from layj.config.yaml or --conf for generation params.
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
