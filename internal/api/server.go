// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/models"
	"github.com/portfolio-report/internal/service"
)

// Service interfaces for dependency injection and testing

// ReportServiceInterface defines the report operations the API exposes
type ReportServiceInterface interface {
	Generate(ctx context.Context, input *service.GenerateReportInput) (*service.GenerateReportResult, error)
	GetReport(ctx context.Context, id string) (*models.Report, error)
	Stats() *service.RenderStats
}

// Server represents the HTTP API server.
type Server struct {
	router        *mux.Router
	httpServer    *http.Server
	reportService ReportServiceInterface
	config        *ServerConfig
	logger        *logging.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerSecond float64 // Per client
	Burst             int
	MaxBodyBytes      int64
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, reportService ReportServiceInterface, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		router:        mux.NewRouter(),
		reportService: reportService,
		config:        config,
		logger:        logger,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	// Order matters: logging must see the status written by recovery
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:           s.router,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(RateLimitMiddleware(NewRateLimiter(s.config.RequestsPerSecond, s.config.Burst)))

	api.HandleFunc("/reports/pdf", s.handleRenderPDF).Methods("POST", "OPTIONS")
	api.HandleFunc("/reports/html", s.handleRenderHTML).Methods("POST", "OPTIONS")
	api.HandleFunc("/reports/{id}", s.handleGetReport).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "portfolio-report",
	})
}

// Handler returns the root handler, for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
