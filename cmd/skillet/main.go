package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/parakeetlabs/skillet/pkg/presenter"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		presenter.Error(err, "command failed")
		os.Exit(1)
	}
}
