package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz"
	"github.com/stretchr/testify/assert"
)

var _ neoviz.Observer = (*Metrics)(nil)

func TestMetrics_GraphLoaded(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.GraphLoaded(neoviz.SourceRelationships)
	m.GraphLoaded(neoviz.SourceRelationships)
	m.GraphLoaded(neoviz.SourceNodes)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GraphLoadsTotal.WithLabelValues(neoviz.SourceRelationships)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphLoadsTotal.WithLabelValues(neoviz.SourceNodes)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GraphLoadsTotal.WithLabelValues(neoviz.SourceFailed)))
}

func TestMetrics_QueryObserved(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.QueryObserved("snapshot", 20*time.Millisecond, nil)
	m.QueryObserved("snapshot", 30*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.QueryDurationSeconds))

	families, err := reg.Gather()
	assert.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "neoviz_query_duration_seconds" {
			found = true
			assert.Len(t, f.GetMetric(), 2, "one series per status")
		}
	}
	assert.True(t, found)
}

func TestNewMetrics_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	assert.Panics(t, func() { NewMetrics(reg) }, "duplicate registration must fail loudly")
}
