package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/handler"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/apperror"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/httputil"
)

type Router struct {
	engine      *gin.Engine
	noteHandler *handler.NoteHandler
	rateLimit   gin.HandlerFunc
	cors        config.CORSConfig
	logger      *zap.Logger
}

type RouterConfig struct {
	NoteHandler *handler.NoteHandler
	// RateLimit is optional; nil disables rate limiting.
	RateLimit   gin.HandlerFunc
	CORS        config.CORSConfig
	Logger      *zap.Logger
	Environment string
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	r := &Router{
		engine:      engine,
		noteHandler: cfg.NoteHandler,
		rateLimit:   cfg.RateLimit,
		cors:        cfg.CORS,
		logger:      cfg.Logger,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger, "/health"))
	r.engine.Use(middleware.CORS(r.cors))
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.engine.NoRoute(func(c *gin.Context) {
		httputil.HandleError(c, apperror.NotFound("route"))
	})
	r.engine.NoMethod(func(c *gin.Context) {
		httputil.HandleError(c, apperror.MethodNotAllowed(c.Request.Method))
	})

	api := r.engine.Group("/api/v1")
	if r.rateLimit != nil {
		api.Use(r.rateLimit)
	}

	notes := api.Group("/notes")
	{
		notes.POST("", r.noteHandler.Create)
		notes.GET("", r.noteHandler.List)
		notes.GET("/:id", r.noteHandler.Get)
		notes.PUT("/:id", r.noteHandler.Update)
		notes.DELETE("/:id", r.noteHandler.Delete)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
