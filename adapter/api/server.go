// Package api provides the DailyEase HTTP API.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	catalogDomain "github.com/Animesh0711/DailyEase/internal/catalog/domain"
	deliveryApplication "github.com/Animesh0711/DailyEase/internal/delivery/application"
	paymentsApplication "github.com/Animesh0711/DailyEase/internal/payments/application"
	subscriptionsApplication "github.com/Animesh0711/DailyEase/internal/subscriptions/application"
	"github.com/Animesh0711/DailyEase/pkg/observability"
	"github.com/gin-gonic/gin"
)

// Services are the application services the handlers call.
type Services struct {
	Subscriptions *subscriptionsApplication.Service
	Payments      *paymentsApplication.Orchestrator
	Deliveries    *deliveryApplication.Ledger
	Catalog       catalogDomain.Catalog
}

// Server is the HTTP API server.
type Server struct {
	engine   *gin.Engine
	server   *http.Server
	logger   *slog.Logger
	services Services
	health   *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates the API server. health may be nil.
func NewServer(cfg ServerConfig, services Services, health *observability.HealthRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogger(logger))

	s := &Server{
		engine:   engine,
		logger:   logger,
		services: services,
		health:   health,
	}

	// Register routes
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	subs := &subscriptionHandler{service: s.services.Subscriptions, logger: s.logger}
	payments := &paymentHandler{payments: s.services.Payments, logger: s.logger}
	deliveries := &deliveryHandler{ledger: s.services.Deliveries, logger: s.logger}
	catalog := &catalogHandler{catalog: s.services.Catalog}

	api := s.engine.Group("/api")
	{
		api.POST("/quotes", catalog.Quote)

		api.POST("/subscriptions", subs.Create)
		api.GET("/subscriptions/:id", subs.Get)
		api.POST("/subscriptions/:id/pause", subs.Pause)
		api.POST("/subscriptions/:id/resume", subs.Resume)
		api.POST("/subscriptions/:id/toggle-delivery", deliveries.Toggle)
		api.GET("/subscriptions/:id/calendar", deliveries.Calendar)
		api.GET("/calendar/structured/:year", deliveries.Year)
		api.GET("/calendar/text/:year", deliveries.YearText)

		api.GET("/subscribers/:id/subscriptions", subs.ListForSubscriber)
		api.GET("/subscribers/:id/payments", payments.History)

		api.POST("/payments/:id/confirm", payments.Confirm)
		api.POST("/payments/:id/retry", payments.Retry)

		api.GET("/catalog/newspapers", catalog.Newspapers)
		api.GET("/catalog/newspapers/language/:language", catalog.NewspapersByLanguage)
		api.GET("/catalog/newspapers/genre/:genre", catalog.NewspapersByGenre)
		api.GET("/catalog/milk", catalog.Milk)
	}
}

// handleHealth reports the registered probes, or a bare status without them.
func (s *Server) handleHealth(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{
			"status": observability.HealthStatusHealthy,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	health := s.health.Check(c.Request.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
