package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		fatal("failed to wire trip planner", err)
	}

	if err := app.Run(ctx); err != nil {
		fatal("trip planner stopped with error", err)
	}
}

func fatal(msg string, err error) {
	slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error(msg, "service", "trip-planner", "error", err)
	os.Exit(1)
}
