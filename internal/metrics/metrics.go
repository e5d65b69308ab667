package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels completed analyses.
	OutcomeSuccess = "success"
	// OutcomeError labels failed analyses (acquisition or pipeline issues).
	OutcomeError = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fare_analytics",
			Name:      "analyses_total",
			Help:      "Total number of analyses handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fare_analytics",
			Name:      "analysis_seconds",
			Help:      "Analysis latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13},
		},
	)

	observationsFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fare_analytics",
			Name:      "observations_fetched_total",
			Help:      "Fare observations returned by the acquisition layer, partitioned by source.",
		},
		[]string{"source"},
	)

	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fare_analytics",
			Name:      "cache_requests_total",
			Help:      "Acquisition cache lookups, partitioned by result.",
		},
		[]string{"result"},
	)
)

// Register attaches fare-analytics collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
		observationsFetched,
		cacheRequestsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records an analysis duration and outcome label.
func ObserveAnalysis(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	analysesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}

// ObserveFetch records how many observations a source produced.
func ObserveFetch(source string, count int) {
	if count < 0 {
		count = 0
	}
	observationsFetched.WithLabelValues(source).Add(float64(count))
}

// ObserveCache records a cache lookup result ("hit" or "miss").
func ObserveCache(result string) {
	cacheRequestsTotal.WithLabelValues(result).Inc()
}
