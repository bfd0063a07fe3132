package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "neoviz"

// Metrics holds the Prometheus collectors of the viewer. It implements
// neoviz.Observer so the graph service can report into it directly.
//
// All operations are thread-safe.
type Metrics struct {
	// GraphLoadsTotal counts snapshot loads by the query that served them.
	// Labels: source (relationships, nodes, failed)
	GraphLoadsTotal *prometheus.CounterVec

	// QueryDurationSeconds measures Cypher round trips.
	// Labels: operation (snapshot, snapshot_fallback, cypher, repository), status (success, error)
	QueryDurationSeconds *prometheus.HistogramVec

	// HTTPRequestsTotal counts API requests.
	// Labels: method, route, status
	HTTPRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on reg. Passing
// prometheus.DefaultRegisterer exposes them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GraphLoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "graph_loads_total",
				Help:      "Graph snapshot loads by serving query",
			},
			[]string{"source"},
		),
		QueryDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "query_duration_seconds",
				Help:      "Duration of Cypher queries by operation and status",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// GraphLoaded records the outcome of a snapshot load.
func (m *Metrics) GraphLoaded(source string) {
	m.GraphLoadsTotal.WithLabelValues(source).Inc()
}

// QueryObserved records a Cypher query duration.
func (m *Metrics) QueryObserved(operation string, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.QueryDurationSeconds.WithLabelValues(operation, status).Observe(elapsed.Seconds())
}
