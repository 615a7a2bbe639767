package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"voc-backend/internal/cli"
	"voc-backend/internal/shared/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	telemetry.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
