package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"employeedir/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.L().Error().Err(err).Msg("employeedir failed")
		stop()
		os.Exit(1)
	}
}
