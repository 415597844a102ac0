// Package metrics exposes Prometheus collectors for the discovery pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gostremiojackett"

// Outcome labels for resolutions.
const (
	OutcomeStream  = "stream"
	OutcomeDropped = "dropped"
	OutcomeFailed  = "failed"
)

// Collector groups the pipeline metrics. A nil *Collector records nothing.
type Collector struct {
	SourceQueriesTotal  *prometheus.CounterVec
	CandidatesTotal     *prometheus.CounterVec
	ResolutionsTotal    *prometheus.CounterVec
	ResolveRetriesTotal prometheus.Counter
	DiscoveryDuration   *prometheus.HistogramVec
}

func New(r prometheus.Registerer) *Collector {
	m := &Collector{
		SourceQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "source_queries_total",
			Help:      "Total number of indexer queries by source and status",
		}, []string{"source", "status"}),
		CandidatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates_total",
			Help:      "Total number of candidates seen by pipeline stage",
		}, []string{"stage"}),
		ResolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "resolutions_total",
			Help:      "Total number of candidate resolutions by outcome",
		}, []string{"outcome"}),
		ResolveRetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "retries_total",
			Help:      "Total number of resolution retries after transient failures",
		}),
		DiscoveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "duration_seconds",
			Help:      "Duration of complete stream discoveries by media type",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"media_type"}),
	}

	r.MustRegister(m.SourceQueriesTotal)
	r.MustRegister(m.CandidatesTotal)
	r.MustRegister(m.ResolutionsTotal)
	r.MustRegister(m.ResolveRetriesTotal)
	r.MustRegister(m.DiscoveryDuration)
	return m
}

func (m *Collector) ObserveSourceQuery(source, status string) {
	if m == nil {
		return
	}
	m.SourceQueriesTotal.WithLabelValues(source, status).Inc()
}

func (m *Collector) AddCandidates(stage string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CandidatesTotal.WithLabelValues(stage).Add(float64(n))
}

func (m *Collector) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Collector) ObserveRetry() {
	if m == nil {
		return
	}
	m.ResolveRetriesTotal.Inc()
}

func (m *Collector) ObserveDiscovery(mediaType string, d time.Duration) {
	if m == nil {
		return
	}
	m.DiscoveryDuration.WithLabelValues(mediaType).Observe(d.Seconds())
}
