package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/bootstrap"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "notes-api:", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. Resources opened here are released
// before it returns, including on startup failures.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening note store: %w", err)
	}
	defer closeStore(store, logger)

	return bootstrap.NewServer(cfg, store, logger).Run(ctx)
}

func closeStore(store io.Closer, logger *zap.Logger) {
	if err := store.Close(); err != nil {
		logger.Error("failed to close note store", zap.Error(err))
	}
}
