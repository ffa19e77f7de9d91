// Package metrics exposes Prometheus metrics for the policy service.
//
// Scraping /metrics in HTTP mode shows, for example:
//
//	vista_policy_reloads_total{result="success"} 3
//	vista_policy_searches_total{result="success"} 42
//	vista_policy_groundings_total{disposition="policy"} 30
//	vista_policy_index_chunks 118
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driving"
)

const (
	namespace = "vista"
	subsystem = "policy"

	resultSuccess = "success"
	resultError   = "error"
)

// StatsReporter is implemented by services that can report the current
// index generation without reloading.
type StatsReporter interface {
	Stats() driving.ReloadStats
}

// Metrics holds the collectors for one registry.
type Metrics struct {
	registry *prometheus.Registry

	reloads        *prometheus.CounterVec
	searches       *prometheus.CounterVec
	groundings     *prometheus.CounterVec
	searchDuration prometheus.Histogram
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reloads_total",
			Help:      "Total number of policy index reloads",
		}, []string{"result"}),
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "searches_total",
			Help:      "Total number of policy searches, including those made while grounding",
		}, []string{"result"}),
		groundings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "groundings_total",
			Help:      "Total number of grounding decisions by disposition",
		}, []string{"disposition"}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "search_duration_seconds",
			Help:      "Duration of policy searches in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for Prometheus metrics scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument wraps svc so that every call is counted. When svc also
// implements StatsReporter, index size gauges are registered as well.
func (m *Metrics) Instrument(svc driving.PolicyService) driving.PolicyService {
	if r, ok := svc.(StatsReporter); ok {
		m.registerStats(r)
	}
	return &instrumented{next: svc, m: m}
}

func (m *Metrics) registerStats(r StatsReporter) {
	gauge := func(name, help string, value func(driving.ReloadStats) float64) {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, func() float64 { return value(r.Stats()) }))
	}

	gauge("index_generation", "Generation number of the live policy index",
		func(s driving.ReloadStats) float64 { return float64(s.Generation) })
	gauge("index_documents", "Documents in the live policy index",
		func(s driving.ReloadStats) float64 { return float64(s.Documents) })
	gauge("index_catalogs", "Catalog documents in the live policy index",
		func(s driving.ReloadStats) float64 { return float64(s.Catalogs) })
	gauge("index_chunks", "Chunks in the live policy index",
		func(s driving.ReloadStats) float64 { return float64(s.Chunks) })
}

// instrumented is a driving.PolicyService that records metrics.
type instrumented struct {
	next driving.PolicyService
	m    *Metrics
}

func (s *instrumented) Reload(ctx context.Context) (driving.ReloadStats, error) {
	stats, err := s.next.Reload(ctx)
	s.m.reloads.WithLabelValues(result(err)).Inc()
	return stats, err
}

func (s *instrumented) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Hit, error) {
	start := time.Now()
	hits, err := s.next.Search(ctx, query, opts)
	s.m.searchDuration.Observe(time.Since(start).Seconds())
	s.m.searches.WithLabelValues(result(err)).Inc()
	return hits, err
}

func (s *instrumented) Ground(ctx context.Context, query string, strict bool) (*domain.GroundingDecision, error) {
	start := time.Now()
	d, err := s.next.Ground(ctx, query, strict)
	s.m.searchDuration.Observe(time.Since(start).Seconds())
	s.m.searches.WithLabelValues(result(err)).Inc()
	if err == nil && d != nil {
		s.m.groundings.WithLabelValues(string(d.Disposition)).Inc()
	}
	return d, err
}

func (s *instrumented) Brief(ctx context.Context, query string, strict bool) (*domain.Briefing, error) {
	start := time.Now()
	b, err := s.next.Brief(ctx, query, strict)
	s.m.searchDuration.Observe(time.Since(start).Seconds())
	s.m.searches.WithLabelValues(result(err)).Inc()
	if err == nil && b != nil {
		s.m.groundings.WithLabelValues(string(b.Decision.Disposition)).Inc()
	}
	return b, err
}

func (s *instrumented) Sources(ctx context.Context) ([]driving.SourceInfo, error) {
	return s.next.Sources(ctx)
}

func (s *instrumented) Ready() bool {
	return s.next.Ready()
}

func (s *instrumented) Watch(ctx context.Context) error {
	return s.next.Watch(ctx)
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
