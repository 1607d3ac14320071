package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/database"
)

func migrateCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply pending SQL migrations to PostgreSQL. SQLite databases are
migrated when opened, so for the sqlite driver this only creates the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if path != "" {
				cfg.Database.MigrationsPath = path
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch cfg.Storage.Driver {
			case config.StoragePostgres:
				cfg.Database.AutoMigrate = false
				pool, err := database.NewPostgresPool(ctx, cfg.Database)
				if err != nil {
					return err
				}
				defer pool.Close()

				if err := database.RunMigrations(ctx, pool, cfg.Database.MigrationsPath); err != nil {
					return err
				}
			case config.StorageSQLite:
				db, err := database.OpenSQLite(ctx, cfg.SQLite.Path)
				if err != nil {
					return err
				}
				if err := db.Close(); err != nil {
					return err
				}
			default:
				return fmt.Errorf("driver %q has no schema to migrate", cfg.Storage.Driver)
			}

			_, err = fmt.Fprintf(out, "%s schema is up to date\n", cfg.Storage.Driver)
			return err
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "migrations directory (overrides DB_MIGRATIONS_PATH)")

	return cmd
}
