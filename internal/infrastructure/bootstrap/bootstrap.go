// Package bootstrap assembles the note service and HTTP router from
// configuration. cmd/api and cmd/notesctl share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/handler"
	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository/cached"
	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository/memory"
	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository/postgres"
	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository/sqlite"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/cache"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/database"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/server"
	"github.com/marcos-nsantos/notes-backend/internal/usecase/note"
)

// Store is the configured persistence stack. Redis is nil unless enabled.
type Store struct {
	Notes repository.NoteRepository
	Tx    repository.Transactor
	Redis *redis.Client

	closers []func() error
}

func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	s := &Store{}

	if err := s.openNotes(ctx, cfg); err != nil {
		_ = s.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Redis = client
		s.closers = append(s.closers, client.Close)

		if cfg.Cache.Enabled {
			s.Notes = cached.NewNoteRepo(s.Notes, client, cfg.Cache.TTL, logger)
		}
	}

	logger.Info("note store ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.Bool("redis", s.Redis != nil),
	)
	return s, nil
}

func (s *Store) openNotes(ctx context.Context, cfg *config.Config) error {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		repo := memory.NewNoteRepo()
		s.Notes, s.Tx = repo, repo

	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		s.closers = append(s.closers, func() error {
			pool.Close()
			return nil
		})
		s.Notes, s.Tx = postgres.NewNoteRepo(pool), postgres.NewTxManager(pool)

	case config.StorageSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("opening sqlite: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		s.Notes, s.Tx = sqlite.NewNoteRepo(db), sqlite.NewTxManager(db)

	default:
		return fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (s *Store) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func NewNoteService(s *Store, logger *zap.Logger) *note.Service {
	return note.NewService(s.Notes, s.Tx, logger)
}

func NewRouter(cfg *config.Config, s *Store, svc *note.Service, logger *zap.Logger) *server.Router {
	return server.NewRouter(server.RouterConfig{
		NoteHandler: handler.NewNoteHandler(svc),
		RateLimit:   rateLimit(cfg.RateLimit, s.Redis, logger),
		CORS:        cfg.CORS,
		Logger:      logger,
		Environment: cfg.Server.Environment,
	})
}

func rateLimit(cfg config.RateLimitConfig, client *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	if client != nil {
		return middleware.NewRateLimiter(client, cfg, logger).Limit()
	}
	return middleware.NewLocalRateLimiter(cfg).Limit()
}

// NewServer wires the note service and router over s into an HTTP server
// listening on cfg.Server.Port.
func NewServer(cfg *config.Config, s *Store, logger *zap.Logger) *server.Server {
	router := NewRouter(cfg, s, NewNoteService(s, logger), logger)

	return server.NewServer(server.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Handler:         router.Engine(),
		Logger:          logger,
	})
}
