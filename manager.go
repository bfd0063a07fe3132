package neoviz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/models"
	"go.uber.org/zap"
)

// ErrGraphUnavailable is returned by LoadSnapshot when neither the relationship
// query nor the node-only fallback could be executed.
var ErrGraphUnavailable = errors.New("could not load graph")

// ErrEmptyQuery is returned by RunCypher for a blank query.
var ErrEmptyQuery = errors.New("query is required")

// Snapshot sources.
const (
	SourceRelationships = "relationships"
	SourceNodes         = "nodes"
	SourceFailed        = "failed"
)

const (
	DefaultSnapshotLimit = 500
	DefaultFallbackLimit = 300
)

const (
	snapshotQuery = `MATCH (n)-[r]->(m) RETURN n, r, m LIMIT $limit`
	fallbackQuery = `MATCH (n) RETURN n LIMIT $limit`
)

// Snapshot is a bounded view of the graph ready for rendering.
type Snapshot struct {
	Graph *models.GraphResult
	// Source tells which query produced the graph: SourceRelationships or SourceNodes.
	Source string
}

// Observer receives notifications about graph loads and query executions.
// internal/observability provides a Prometheus implementation.
type Observer interface {
	GraphLoaded(source string)
	QueryObserved(operation string, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) GraphLoaded(string)                         {}
func (nopObserver) QueryObserved(string, time.Duration, error) {}

// GraphService is the central orchestrator of the viewer. It owns the database
// runner and exposes snapshot loading, raw Cypher execution and, through its
// Repository, the editing operations.
type GraphService struct {
	runner        DBRunner
	repo          *Repository
	logger        *zap.Logger
	observer      Observer
	snapshotLimit int
	fallbackLimit int
	curvature     []CurvatureOption
}

// ServiceOption configures a GraphService.
type ServiceOption func(*GraphService)

// WithLogger sets the logger used by the service and its repository.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *GraphService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver installs a metrics observer.
func WithObserver(o Observer) ServiceOption {
	return func(s *GraphService) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLimits sets the row caps of the snapshot query and of its fallback.
// Non-positive values keep the defaults.
func WithLimits(snapshot, fallback int) ServiceOption {
	return func(s *GraphService) {
		if snapshot > 0 {
			s.snapshotLimit = snapshot
		}
		if fallback > 0 {
			s.fallbackLimit = fallback
		}
	}
}

// WithCurvatureOptions sets the options passed to DecorateEdges by Decorate.
func WithCurvatureOptions(opts ...CurvatureOption) ServiceOption {
	return func(s *GraphService) {
		s.curvature = append(s.curvature, opts...)
	}
}

// NewGraphService creates a new instance of the GraphService.
func NewGraphService(runner DBRunner, opts ...ServiceOption) *GraphService {
	s := &GraphService{
		runner:        runner,
		logger:        zap.NewNop(),
		observer:      nopObserver{},
		snapshotLimit: DefaultSnapshotLimit,
		fallbackLimit: DefaultFallbackLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.repo = NewRepository(&observedRunner{runner: runner, observer: s.observer}, s.logger.Named("repository"))
	return s
}

// Repository returns the editing repository bound to the service's runner.
func (s *GraphService) Repository() *Repository {
	return s.repo
}

// LoadSnapshot fetches a bounded snapshot of the graph for rendering.
//
// The nodes-with-relationships query runs first. If it fails, or succeeds with
// nothing, a node-only query runs once. Failures are logged and never retried.
//
// Parameters:
//   - ctx: The context for the query execution.
//
// Returns:
//
//	The snapshot, or an error wrapping ErrGraphUnavailable when the fallback
//	query fails as well.
func (s *GraphService) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	graph, err := s.query(ctx, "snapshot", snapshotQuery, map[string]any{"limit": s.snapshotLimit})
	switch {
	case err != nil:
		s.logger.Warn("relationship snapshot failed, falling back to nodes", zap.Error(err))
	case graph.Empty():
		s.logger.Debug("relationship snapshot empty, falling back to nodes")
	default:
		s.observer.GraphLoaded(SourceRelationships)
		return &Snapshot{Graph: graph, Source: SourceRelationships}, nil
	}

	graph, err = s.query(ctx, "snapshot_fallback", fallbackQuery, map[string]any{"limit": s.fallbackLimit})
	if err != nil {
		s.logger.Error("node-only snapshot failed", zap.Error(err))
		s.observer.GraphLoaded(SourceFailed)
		return nil, fmt.Errorf("%w: %w", ErrGraphUnavailable, err)
	}
	graph.Edges = graph.Edges[:0]
	s.observer.GraphLoaded(SourceNodes)
	return &Snapshot{Graph: graph, Source: SourceNodes}, nil
}

// RunCypher executes a caller-supplied query and maps whatever nodes and
// relationships it returns. Scalar columns are ignored.
func (s *GraphService) RunCypher(ctx context.Context, query string, params map[string]any) (*models.GraphResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if params == nil {
		params = map[string]any{}
	}
	return s.query(ctx, "cypher", query, params)
}

// Decorate assigns curvatures to the edges of a graph using the service's
// curvature settings.
func (s *GraphService) Decorate(edges []models.GraphEdge) []models.RenderableEdge {
	return DecorateEdges(edges, s.curvature...)
}

func (s *GraphService) query(ctx context.Context, op, query string, params map[string]any) (*models.GraphResult, error) {
	start := time.Now()
	result, err := s.runner.Run(ctx, query, params)
	s.observer.QueryObserved(op, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	graph := MapRowsToGraph(RowsFromRecords(recordsOf(result)))
	s.logger.Debug("mapped query result",
		zap.String("operation", op),
		zap.Int("records", len(recordsOf(result))),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)),
	)
	return graph, nil
}

// observedRunner reports every repository query to the observer.
type observedRunner struct {
	runner   DBRunner
	observer Observer
}

func (o *observedRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	start := time.Now()
	result, err := o.runner.Run(ctx, query, params)
	o.observer.QueryObserved("repository", time.Since(start), err)
	return result, err
}
