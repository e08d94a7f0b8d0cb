package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spec-kit/telecom-tracker/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
