package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/bootstrap"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
)

const requestsPerMin = 1000

// notesAPI is the HTTP stack running against real PostgreSQL and Redis,
// assembled by the same bootstrap code as cmd/api.
type notesAPI struct {
	store  *bootstrap.Store
	url    string
	client *http.Client
}

func startNotesAPI(t *testing.T) *notesAPI {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	pgHost, pgPort := startPostgres(ctx, t)
	redisHost, redisPort := startRedis(ctx, t)

	cfg := &config.Config{
		Server:  config.ServerConfig{Environment: "test"},
		Storage: config.StorageConfig{Driver: config.StoragePostgres},
		Database: config.DatabaseConfig{
			Host:            pgHost,
			Port:            pgPort,
			User:            "notes",
			Password:        "notes",
			Name:            "notes_e2e",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
			MigrationsPath:  migrationsDir(),
			AutoMigrate:     true,
		},
		Redis: config.RedisConfig{
			Enabled:     true,
			Host:        redisHost,
			Port:        redisPort,
			DialTimeout: 2 * time.Second,
			OpTimeout:   time.Second,
			PoolSize:    4,
		},
		Cache:     config.CacheConfig{Enabled: true, TTL: time.Minute},
		RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerMin: requestsPerMin},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("closing store: %v", err)
		}
	})

	router := bootstrap.NewRouter(cfg, store, bootstrap.NewNoteService(store, logger), logger)
	srv := httptest.NewServer(router.Engine())
	t.Cleanup(srv.Close)

	return &notesAPI{
		store:  store,
		url:    srv.URL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func startPostgres(ctx context.Context, t *testing.T) (string, int) {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("notes_e2e"),
		postgres.WithUsername("notes"),
		postgres.WithPassword("notes"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	return hostPort(ctx, t, container, "5432/tcp")
}

func startRedis(ctx context.Context, t *testing.T) (string, int) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	return hostPort(ctx, t, container, "6379/tcp")
}

func hostPort(ctx context.Context, t *testing.T, c testcontainers.Container, port string) (string, int) {
	t.Helper()

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)

	return host, mapped.Int()
}

// call sends a JSON request under /api/v1 and decodes the reply into out
// when out is non-nil. It returns the full response with its body closed.
func (a *notesAPI) call(t *testing.T, method, path string, in, out any) *http.Response {
	t.Helper()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.url+"/api/v1"+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "response body: %s", raw)
	}

	return resp
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
