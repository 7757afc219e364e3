package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/fx"
)

const stopTimeout = 30 * time.Second

type lifecycleApp interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Done() <-chan os.Signal
}

// run starts the application, blocks until ctx is cancelled or fx reports
// shutdown, and returns the process exit code.
func run(ctx context.Context, app lifecycleApp) int {
	return runWithOutput(ctx, app, os.Stderr)
}

func runWithOutput(ctx context.Context, app lifecycleApp, stderr io.Writer) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "failed to start fitinbox: %v\n", err)
		return 1
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(stderr, "failed to stop fitinbox: %v\n", err)
		return 1
	}
	return 0
}

var _ lifecycleApp = (*fx.App)(nil)
