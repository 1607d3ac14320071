package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, 2*time.Second, cfg.Redis.DialTimeout)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		t.Setenv("SQLITE_PATH", "/tmp/notes.db")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_NAME", "notesdb")

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, config.StorageSQLite, cfg.Storage.Driver)
		assert.Equal(t, "/tmp/notes.db", cfg.SQLite.Path)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
		assert.Contains(t, cfg.Database.DSN(), "host=db")
		assert.Contains(t, cfg.Database.DSN(), "dbname=notesdb")
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")

		_, err := config.Load()

		assert.ErrorContains(t, err, "unsupported storage driver")
	})
}
