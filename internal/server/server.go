// Package server exposes the graph viewer over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/config"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/observability"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/view"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/web"
	"go.uber.org/zap"
)

// Deps are the collaborators of the HTTP layer.
type Deps struct {
	Graphs   GraphReader
	Editor   GraphEditor
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Server   config.ServerConfig
	Graph    config.GraphConfig
}

// NewRouter builds the gin engine with every route of the viewer.
func NewRouter(d Deps) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(d.Logger), CORS(d.Server.CORSOrigin))
	if d.Metrics != nil {
		router.Use(RequestMetrics(d.Metrics))
	}

	router.GET("/health", HealthCheck)
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	router.GET("/", web.Index)
	router.StaticFS("/assets", web.Assets())
	if d.Server.UploadDir != "" {
		router.Static("/uploads", d.Server.UploadDir)
	}

	defaults := view.DefaultOptions()
	defaults.Physics = d.Graph.Physics

	api := router.Group("/api")
	{
		api.GET("/graph", LoadGraph(d.Graphs, defaults, d.Logger))
		api.POST("/cypher", RunCypher(d.Graphs, d.Logger))
		api.GET("/nodes", ListNodes(d.Editor, d.Graph.ListLimit, d.Logger))
		api.DELETE("/nodes/:id", DeleteNode(d.Editor, d.Logger))
		api.POST("/create-node", CreateNode(d.Editor, d.Logger))
		api.POST("/create-rel", CreateRelation(d.Editor, d.Logger))
		api.POST("/upload-avatar", UploadAvatar(d.Server.UploadDir, d.Server.MaxUploadBytes, d.Logger))
	}
	return router, nil
}

// Run serves handler on port until ctx is cancelled, then shuts down within grace.
func Run(ctx context.Context, handler http.Handler, port int, grace time.Duration, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("url", fmt.Sprintf("http://localhost:%d", port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
