package server

import (
	"time"

	"replydesk/internal/cache"
	"replydesk/internal/config"
	"replydesk/internal/extract"
	"replydesk/internal/handlers"
	"replydesk/internal/signals"
	"replydesk/internal/threads"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Server represents the application server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    zerolog.Logger
	store     *threads.Store
	backend   handlers.Backend
	extractor extract.Extractor
	signals   signals.Extractor
	mailer    handlers.Mailer
	cache     *cache.Cache
}

// New creates a new server instance
func New(cfg *config.Config, logger zerolog.Logger, store *threads.Store, backend handlers.Backend, extractor extract.Extractor, mailer handlers.Mailer) *Server {
	return &Server{
		config:    cfg,
		logger:    logger,
		store:     store,
		backend:   backend,
		extractor: extractor,
		signals:   signals.NewPatternExtractor(),
		mailer:    mailer,
		cache:     cache.New(),
	}
}

// zerologMiddleware creates a zerolog-based logging middleware for Echo
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			return err
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	// Middleware
	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	// Hide Echo banner
	s.echo.HideBanner = true

	// Setup routes
	s.setupRoutes()
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	// API group with /api prefix
	api := s.echo.Group("/api")

	// Swagger UI. The spec itself comes from a swag-generated docs package,
	// which is produced by `swag init` in CI and registered via a blank
	// import in cmd/server; without it the UI reports no spec available.
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health endpoint (keep at root level for monitoring)
	s.echo.GET("/healthz", handlers.HealthHandler(s.config.Version))

	api.GET("/", handlers.RootHandler(s.config.Version))

	// Document management
	files := api.Group("/files")
	files.POST("/upload", handlers.UploadHandler(s.store, s.extractor, s.config))
	files.GET("/list", handlers.ListFilesHandler(s.store))
	files.GET("/list/replied", handlers.ListRepliedHandler(s.store))
	files.GET("/stats", handlers.StatsHandler(s.store))
	files.GET("/thread/:filename", handlers.ThreadInfoHandler(s.store))
	files.GET("/thread/:filename/summary", handlers.ThreadSummaryHandler(s.store))
	files.GET("/content/:filename", handlers.FileContentHandler(s.store, s.cache, s.extractor, s.config))
	files.POST("/generate-reply/:filename", handlers.GenerateReplyHandler(s.store, s.cache, s.extractor, s.config))
	files.POST("/mark-replied/:filename", handlers.MarkRepliedHandler(s.store, s.mailer))
	files.DELETE("/delete/:filename", handlers.DeleteFileHandler(s.store, s.cache))

	// Conversation
	chat := api.Group("/chat")
	chat.GET("/health", handlers.ChatHealthHandler(s.backend, s.config))
	chat.POST("/message", handlers.MessageHandler(s.backend, s.config))
	chat.POST("/thread", handlers.ChatThreadHandler(s.store, s.backend, s.signals, s.config))
	chat.GET("/thread/:filename/history", handlers.ThreadHistoryHandler(s.store, s.signals))
	chat.GET("/thread/:filename/context", handlers.ThreadContextHandler(s.store, s.signals))
	chat.POST("/thread/:filename/clear", handlers.ClearThreadHandler(s.store))
	chat.POST("/thread/:filename/regenerate", handlers.RegenerateHandler(s.store, s.backend, s.signals, s.config))

	// Serve static files (this should be last to avoid conflicts)
	s.echo.Static("/", "static")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Port).Msg("Server starting")
	return s.echo.Start(":" + s.config.Port)
}
