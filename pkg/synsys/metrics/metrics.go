package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes recorded by ObserveAnalysis.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

// Collector holds the Prometheus metrics of the analyzer and its HTTP
// surface. Every method is safe on a nil *Collector, which records nothing.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Analysis metrics
	Analyses         *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	RepeatedLemmas   prometheus.Histogram

	// Synonym metrics
	SynonymLookups *prometheus.CounterVec
	SourceErrors   prometheus.Counter

	TaggerAvailable prometheus.Gauge
}

// NewCollector creates a collector with its own registry, so several
// collectors can coexist in one process.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of text analyses by outcome",
			},
			[]string{"outcome"},
		),
		AnalysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Text analysis duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		RepeatedLemmas: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "repeated_lemmas",
				Help:      "Number of repeated lemmas reported per analysis",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
		SynonymLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synonym_lookups_total",
				Help:      "Synonym suggestions by the tier that answered",
			},
			[]string{"tier"},
		),
		SourceErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synonym_source_errors_total",
				Help:      "Lexical database lookups that failed",
			},
		),
		TaggerAvailable: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tagger_available",
				Help:      "1 when an annotation engine is loaded, 0 in degraded mode",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Analyses,
		c.AnalysisDuration,
		c.RepeatedLemmas,
		c.SynonymLookups,
		c.SourceErrors,
		c.TaggerAvailable,
	)

	return c
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveAnalysis records one analysis call.
func (c *Collector) ObserveAnalysis(outcome string, repeated int, d time.Duration) {
	if c == nil {
		return
	}
	c.Analyses.WithLabelValues(outcome).Inc()
	c.AnalysisDuration.Observe(d.Seconds())
	if outcome == OutcomeOK {
		c.RepeatedLemmas.Observe(float64(repeated))
	}
}

// ObserveSynonym records which tier produced a suggestion.
func (c *Collector) ObserveSynonym(tier string) {
	if c == nil {
		return
	}
	c.SynonymLookups.WithLabelValues(tier).Inc()
}

// ObserveSourceError records a failed lexical database lookup.
func (c *Collector) ObserveSourceError() {
	if c == nil {
		return
	}
	c.SourceErrors.Inc()
}

// SetTaggerAvailable records whether an annotation engine is loaded.
func (c *Collector) SetTaggerAvailable(ok bool) {
	if c == nil {
		return
	}
	if ok {
		c.TaggerAvailable.Set(1)
		return
	}
	c.TaggerAvailable.Set(0)
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler exposes the collector in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
