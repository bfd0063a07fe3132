package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/config"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/observability"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph viewer and its JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.Get())
		},
	}
	return cmd
}

// openExecutor creates the Neo4j executor described by cfg.
func openExecutor(cfg config.Neo4jConfig) (*neoviz.Neo4jExecutor, error) {
	exec, err := neoviz.NewNeo4jExecutor(cfg.URI, cfg.Username, cfg.Password, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j executor: %w", err)
	}
	exec.Timeout = cfg.QueryTimeout
	return exec, nil
}

// newGraphService builds the service with the configured limits and curvature.
func newGraphService(runner neoviz.DBRunner, cfg config.GraphConfig, logger *zap.Logger, obs neoviz.Observer) *neoviz.GraphService {
	opts := []neoviz.ServiceOption{
		neoviz.WithLogger(logger),
		neoviz.WithLimits(cfg.SnapshotLimit, cfg.FallbackLimit),
		neoviz.WithCurvatureOptions(neoviz.WithCurvature(cfg.CurvatureBase, cfg.CurvatureStep)),
	}
	if obs != nil {
		opts = append(opts, neoviz.WithObserver(obs))
	}
	return neoviz.NewGraphService(runner, opts...)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := observability.GetLogger()
	defer observability.Sync()

	exec, err := openExecutor(cfg.Neo4j)
	if err != nil {
		return err
	}
	defer exec.Close(context.Background())

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	svc := newGraphService(exec, cfg.Graph, logger, metrics)

	router, err := server.NewRouter(server.Deps{
		Graphs:   svc,
		Editor:   svc.Repository(),
		Logger:   logger.Named("http"),
		Metrics:  metrics,
		Gatherer: prometheus.DefaultGatherer,
		Server:   cfg.Server,
		Graph:    cfg.Graph,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, router, cfg.Server.Port, cfg.Server.ShutdownGrace, logger)
	})
	g.Go(func() error {
		// The viewer stays up without a database and answers 503 on /api/graph.
		if err := exec.Verify(gctx); err != nil {
			logger.Warn("neo4j is not reachable yet", zap.String("uri", cfg.Neo4j.URI), zap.Error(err))
			return nil
		}
		logger.Info("connected to neo4j", zap.String("uri", cfg.Neo4j.URI), zap.String("database", exec.DBName))
		return nil
	})
	return g.Wait()
}
