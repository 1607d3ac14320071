package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/bootstrap"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
)

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the notes HTTP API",
		Long:  `Serve the notes REST API until interrupted. Configuration comes from the environment.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger, err := a.newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return serve(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides SERVER_PORT)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return bootstrap.NewServer(cfg, store, logger).Run(ctx)
}
