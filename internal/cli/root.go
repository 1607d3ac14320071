// Package cli implements notesctl, a command line client that drives the
// note service directly against the configured store.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/bootstrap"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/observability"
	"github.com/marcos-nsantos/notes-backend/internal/usecase/note"
)

type app struct {
	driver  string
	output  string
	verbose bool
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "notesctl",
		Short:        "Manage personal notes",
		Long:         `notesctl creates, reads, updates and deletes notes, and runs the notes HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch a.output {
			case outputTable, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q", a.output)
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.driver, "driver", "", "storage driver: memory, postgres or sqlite (overrides STORAGE_DRIVER)")
	flags.StringVarP(&a.output, "output", "o", outputTable, "output format: table, json or yaml")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at the configured LOG_LEVEL instead of errors only")

	cmd.AddCommand(
		serveCmd(a),
		migrateCmd(a),
		createCmd(a),
		getCmd(a),
		listCmd(a),
		updateCmd(a),
		deleteCmd(a),
	)

	return cmd
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.driver != "" {
		cfg.Storage.Driver = a.driver
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (a *app) newLogger(cfg *config.Config, quiet bool) (*zap.Logger, error) {
	level := cfg.Log.Level
	if quiet && !a.verbose {
		level = "error"
	}
	return observability.NewLogger(level, "console")
}

// withService opens the store for the duration of fn.
func (a *app) withService(ctx context.Context, fn func(svc *note.Service) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	logger, err := a.newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(bootstrap.NewNoteService(store, logger))
}
