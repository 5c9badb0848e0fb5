package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/metrics"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/report"
)

// Analyzer is the analysis capability the HTTP layer serves.
type Analyzer interface {
	Report(ctx context.Context, req synsys.Request) (report.Report, error)
	Ready() bool
}

// Config holds HTTP server settings.
type Config struct {
	Address        string
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Router creates and configures the HTTP router
type Router struct {
	cfg      Config
	analyzer Analyzer
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// NewRouter creates a new router instance
func NewRouter(cfg Config, analyzer Analyzer, logger *zap.Logger, m *metrics.Collector) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return &Router{cfg: cfg, analyzer: analyzer, logger: logger, metrics: m}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(Recoverer(rt.logger))
	router.Use(Logger(rt.logger))
	router.Use(Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	h := NewAnalyzeHandler(rt.analyzer, rt.logger, rt.cfg.MaxBodyBytes)
	router.With(chimiddleware.Timeout(rt.cfg.RequestTimeout)).Post("/analisar", h.Analyze)

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, rt.logger, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports 503 while no annotation engine is loaded.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.analyzer == nil || !rt.analyzer.Ready() {
		respondJSON(w, rt.logger, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"erro":   "Modelo de anotação indisponível.",
		})
		return
	}
	respondJSON(w, rt.logger, http.StatusOK, map[string]string{"status": "ready"})
}
