package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Handle OS signals for clean shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
