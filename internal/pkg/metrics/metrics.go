// Package metrics provides Prometheus metrics for the flex pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flexbot"

// Lookup outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	// LookupTotal counts ledger and market lookups by operation and outcome.
	LookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "lookup",
		Name:      "total",
		Help:      "Total number of lookups by operation and outcome",
	}, []string{"operation", "outcome"})

	// LookupDuration tracks lookup latency by operation.
	LookupDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "lookup",
		Name:      "duration_seconds",
		Help:      "Lookup latency in seconds",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
	}, []string{"operation"})

	// CardsRendered counts successfully rendered cards.
	CardsRendered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "cards_total",
		Help:      "Total number of cards rendered",
	})

	// RenderDuration tracks card render latency.
	RenderDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "duration_seconds",
		Help:      "Card render latency in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	// RequestsTotal counts flex requests by surface (telegram, http, cli) and outcome.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of flex requests by surface and outcome",
	}, []string{"surface", "outcome"})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(LookupTotal, LookupDuration, CardsRendered, RenderDuration, RequestsTotal)
	})
}

// ObserveLookup records one lookup's outcome and latency.
func ObserveLookup(operation, outcome string, started time.Time) {
	LookupTotal.WithLabelValues(operation, outcome).Inc()
	LookupDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
