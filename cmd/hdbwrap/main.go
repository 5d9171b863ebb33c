// Package main is the entry point for the hdbwrap CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/satishbabariya/hdbwrap/cmd/hdbwrap/commands"
	"github.com/satishbabariya/hdbwrap/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		ui.PrintError("%v", err)
		stop()
		os.Exit(1)
	}
}
