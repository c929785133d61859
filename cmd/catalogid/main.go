package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalogid/internal/invariants"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds to process exit statuses.
func exitCode(err error) int {
	switch invariants.Kind(err) {
	case "input":
		return 2
	case "cache":
		return 3
	case "configuration":
		return 4
	default:
		return 1
	}
}
