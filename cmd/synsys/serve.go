package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/internal/server"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/config"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/metrics"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API (POST /analisar)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ServerAddress = addr
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := metrics.NewCollector("synsys")
			analyzer, comp, err := buildAnalyzer(ctx, cfg, logger, m)
			if err != nil {
				return err
			}
			defer comp.Close()

			srv := server.New(server.Config{
				Address:        cfg.ServerAddress,
				CORSOrigins:    cfg.CORSOrigins,
				RequestTimeout: cfg.RequestTimeout,
				MaxBodyBytes:   cfg.MaxBodyBytes,
			}, analyzer, logger, m)

			logger.Info("synsys API ready",
				zap.String("environment", cfg.Environment),
				zap.String("tagger", cfg.Tagger),
				zap.Bool("annotation", analyzer.Ready()),
				zap.Bool("synsets", comp.Synsets != nil),
			)
			if err := srv.Run(ctx); err != nil {
				logger.Error("Server failed", zap.Error(err))
				return err
			}
			logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER_ADDRESS)")
	return cmd
}

// buildAnalyzer loads configured components and wires the analyzer.
func buildAnalyzer(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Collector) (*synsys.Analyzer, *config.Components, error) {
	loader := cfg.Loader()
	loader.Logger = logger

	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := synsys.Options{
		Tagger:     comp.Tagger,
		TaggerErr:  comp.TaggerErr,
		ExtraStops: comp.ExtraStops,
		Static:     comp.Static,
		Lang:       cfg.Lang,
		Logger:     logger,
		Metrics:    m,
	}
	if comp.Synsets != nil {
		opts.Synsets = comp.Synsets
	}
	return synsys.New(opts), comp, nil
}
