package postgres_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/database"
)

// startPostgres runs a throwaway PostgreSQL, migrates it through the same
// pool constructor the service uses and returns the pool. Everything is
// torn down when the test ends.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:18-alpine",
		tcpostgres.WithDatabase("notes_test"),
		tcpostgres.WithUsername("notes"),
		tcpostgres.WithPassword("notes"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "starting postgres container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := database.NewPostgresPool(ctx, config.DatabaseConfig{
		Host:           host,
		Port:           port.Int(),
		User:           "notes",
		Password:       "notes",
		Name:           "notes_test",
		SSLMode:        "disable",
		MaxOpenConns:   4,
		MigrationsPath: migrationsDir(),
		AutoMigrate:    true,
	})
	require.NoError(t, err, "connecting to postgres")
	t.Cleanup(pool.Close)

	return pool
}

func resetNotes(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE TABLE notes")
	require.NoError(t, err)
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}
