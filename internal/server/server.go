package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/metrics"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 30 * time.Second

// Server runs the HTTP API until its context is canceled.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// New creates an HTTP server for analyzer.
func New(cfg Config, analyzer Analyzer, logger *zap.Logger, m *metrics.Collector) *Server {
	rt := NewRouter(cfg, analyzer, logger, m)
	return &Server{
		srv: &http.Server{
			Addr:         cfg.Address,
			Handler:      rt.Setup(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: rt.cfg.RequestTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: rt.logger,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.String("address", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
