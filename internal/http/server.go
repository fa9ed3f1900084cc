// Package http provides the operational HTTP API server and the metrics
// server for the pipeline. The API exposes health/readiness probes and
// read/replay access to the pipeline's own state (status records, persisted
// matches, quarantined messages); the public match data API is a separate
// system and not served here.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HealthChecker reports whether an external dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouteRegistrar registers a handler's routes on the API router. Handlers
// live next to their domain (internal/ingest/http); the server only wires
// them up.
type RouteRegistrar interface {
	RegisterRoutes(r *gin.RouterGroup)
}

// RouterConfig holds the middleware knobs for the API router.
type RouterConfig struct {
	// CORSEnabled enables CORS with the configured origins.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins.
	CORSAllowOrigins string
	// MetricsMiddleware records HTTP metrics when set.
	MetricsMiddleware gin.HandlerFunc
}

// Server is the operational HTTP API server.
type Server struct {
	db     *sql.DB
	broker HealthChecker
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
	host   string
	port   int
}

// NewServer creates the API server. The database connection is used by the
// readiness probe; handlers are attached with SetupRouter.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		host:   host,
		port:   port,
		logger: logger,
	}
}

// SetBrokerHealth adds the broker connection to the readiness probe.
func (s *Server) SetBrokerHealth(broker HealthChecker) {
	s.broker = broker
}

// SetupRouter builds the API router: recovery, request IDs, structured
// request logging, optional CORS and metrics middleware, the probe
// endpoints, and every registrar's routes under /v1.
func (s *Server) SetupRouter(cfg RouterConfig, registrars ...RouteRegistrar) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	for _, registrar := range registrars {
		registrar.RegisterRoutes(v1)
	}

	s.router = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can do useful work: the
// database and, when configured, the broker must answer a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{}
	ready := true

	if s.db == nil || s.db.PingContext(ctx) != nil {
		components["database"] = "error"
		ready = false
	} else {
		components["database"] = "ok"
	}

	if s.broker != nil {
		if err := s.broker.Health(ctx); err != nil {
			components["broker"] = "error"
			ready = false
		} else {
			components["broker"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.SetupRouter(RouterConfig{})
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
