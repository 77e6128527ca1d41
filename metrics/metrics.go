// Package metrics exports search and ingestion metrics to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carprompt"

// Outcome label values.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeSkipped = "skipped"
	outcomeUsed    = "used"
	outcomeEmpty   = "empty"
)

// Metrics records search and ingestion activity. It implements
// search.SearchMonitor.
type Metrics struct {
	searches      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	results       *prometheus.HistogramVec
	candidates    *prometheus.HistogramVec
	parseFailures *prometheus.CounterVec
	vectorScoring *prometheus.CounterVec
	inFlight      *prometheus.GaugeVec
	embedded      *prometheus.CounterVec
}

var _ search.SearchMonitor = (*Metrics)(nil)

// New registers the metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches run, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time taken by successful searches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		results: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Listings ranked per search, before truncation.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 300},
		}, []string{"operation"}),
		candidates: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_candidates",
			Help:      "Listings fetched from the store per search.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 300},
		}, []string{"operation"}),
		parseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Prompts the filter parser failed on.",
		}, []string{"operation"}),
		vectorScoring: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vector_scoring_total",
			Help:      "Vector scoring attempts, by outcome.",
		}, []string{"operation", "outcome"}),
		inFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "searches_in_flight",
			Help:      "Searches currently running.",
		}, []string{"operation"}),
		embedded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_embedded_total",
			Help:      "Listings embedded in the background after ingestion, by outcome.",
		}, []string{"outcome"}),
	}
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	return registry
}

// Handler serves the metrics in registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

func (m *Metrics) Started(op search.Operation, _ string) {
	m.inFlight.WithLabelValues(string(op)).Inc()
}

func (m *Metrics) Parsed(op search.Operation, _ core.FilterSet, err error) {
	if err != nil {
		m.parseFailures.WithLabelValues(string(op)).Inc()
	}
}

func (m *Metrics) Fetched(op search.Operation, candidates int) {
	m.candidates.WithLabelValues(string(op)).Observe(float64(candidates))
}

func (m *Metrics) VectorScored(op search.Operation, scored int, err error) {
	outcome := outcomeUsed
	switch {
	case err != nil:
		outcome = outcomeFailure
	case scored == 0:
		outcome = outcomeEmpty
	}
	m.vectorScoring.WithLabelValues(string(op), outcome).Inc()
}

func (m *Metrics) Completed(op search.Operation, count int, elapsed time.Duration) {
	m.inFlight.WithLabelValues(string(op)).Dec()
	m.searches.WithLabelValues(string(op), outcomeSuccess).Inc()
	m.duration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
	m.results.WithLabelValues(string(op)).Observe(float64(count))
}

func (m *Metrics) Failed(op search.Operation, _ error) {
	m.inFlight.WithLabelValues(string(op)).Dec()
	m.searches.WithLabelValues(string(op), outcomeFailure).Inc()
}

// ListingsEmbedded counts n listings embedded, or failed to embed when err
// is set. Listings left alone because the embedder is offline count as
// skipped.
func (m *Metrics) ListingsEmbedded(n int, err error) {
	outcome := outcomeSuccess
	switch {
	case errors.Is(err, ai.ErrUnavailable):
		outcome = outcomeSkipped
	case err != nil:
		outcome = outcomeFailure
	}
	m.embedded.WithLabelValues(outcome).Add(float64(n))
}
