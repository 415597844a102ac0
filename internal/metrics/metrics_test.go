package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSourceQuery("host1", "ok")
	m.ObserveSourceQuery("host1", "ok")
	m.ObserveSourceQuery("host2", "error")
	m.AddCandidates("raw", 4)
	m.AddCandidates("raw", 0)
	m.ObserveResolution(OutcomeStream)
	m.ObserveRetry()
	m.ObserveDiscovery("movie", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourceQueriesTotal.WithLabelValues("host1", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceQueriesTotal.WithLabelValues("host2", "error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CandidatesTotal.WithLabelValues("raw")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolutionsTotal.WithLabelValues(OutcomeStream)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolveRetriesTotal))
}

func TestNilCollector(t *testing.T) {
	var m *Collector

	assert.NotPanics(t, func() {
		m.ObserveSourceQuery("host1", "ok")
		m.AddCandidates("raw", 1)
		m.ObserveResolution(OutcomeFailed)
		m.ObserveRetry()
		m.ObserveDiscovery("series", time.Second)
	})
}
