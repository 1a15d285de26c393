// Package metrics exposes simulator counters on a dedicated prometheus
// registry. Nothing is registered on the prometheus default registry, so
// importing the package has no side effects on a host program's metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector below.
var Registry = prometheus.NewRegistry()

var (
	// runsTotal counts run requests by backend name
	runsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "qtermsim_runs_total",
		Help: "Total circuit runs by backend",
	}, []string{"backend"})

	// runErrors counts runs that returned an error
	runErrors = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "qtermsim_run_errors_total",
		Help: "Total failed circuit runs by backend",
	}, []string{"backend"})

	// gatesApplied counts operations pushed through the evolution kernel
	gatesApplied = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "qtermsim_gates_applied_total",
		Help: "Total gate applications performed by the evolution engine",
	})

	// cacheEvents counts amplitude cache outcomes
	cacheEvents = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "qtermsim_cache_events_total",
		Help: "Amplitude cache events by type",
	}, []string{"event"}) // hit, partial, miss, invalidated

	shotsTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "qtermsim_shots_total",
		Help: "Total measurement shots drawn",
	})

	runDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qtermsim_run_duration_seconds",
		Help:    "Circuit run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
	}, []string{"backend"})
)

// ObserveRun records one run against backend.
func ObserveRun(backend string, elapsed time.Duration, err error) {
	runsTotal.WithLabelValues(backend).Inc()
	runDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	if err != nil {
		runErrors.WithLabelValues(backend).Inc()
	}
}

// AddGates records n gate applications.
func AddGates(n int) {
	if n > 0 {
		gatesApplied.Add(float64(n))
	}
}

// CacheEvent records one amplitude cache event.
func CacheEvent(event string) {
	cacheEvents.WithLabelValues(event).Inc()
}

// AddShots records n drawn shots.
func AddShots(n int) {
	if n > 0 {
		shotsTotal.Add(float64(n))
	}
}
