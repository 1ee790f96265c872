package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryanwahyu/compliance-view/cmd/compliance/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
