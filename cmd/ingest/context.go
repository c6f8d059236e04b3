package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// cmdContext returns a context cancelled on SIGINT/SIGTERM so long-running
// external calls (download, transcription) can be interrupted cleanly.
func cmdContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}
