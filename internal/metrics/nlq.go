package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Translator Prometheus metrics.
var (
	TranslatorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlquery",
			Name:      "translator_requests_total",
			Help:      "Total number of translator requests",
		},
		[]string{"provider", "model", "status"},
	)

	TranslatorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nlquery",
			Name:      "translator_request_duration_seconds",
			Help:      "Translator request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider", "model"},
	)

	TranslatorTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlquery",
			Name:      "translator_tokens_total",
			Help:      "Total translator tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	TranslatorErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlquery",
			Name:      "translator_errors_total",
			Help:      "Total translator errors",
		},
		[]string{"provider", "model", "error_type"},
	)
)

// Query pipeline Prometheus metrics.
var (
	DraftCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlquery",
			Name:      "draft_cache_total",
			Help:      "Draft cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlquery",
			Name:      "queries_total",
			Help:      "Natural-language queries by outcome",
		},
		[]string{"outcome"},
	)

	QueryResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nlquery",
			Name:      "query_results",
			Help:      "Number of records returned per query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
	)
)

var registerNLQOnce sync.Once

// RegisterNLQMetrics registers translator and query metrics. Safe to call more than once.
func RegisterNLQMetrics() {
	registerNLQOnce.Do(func() {
		prometheus.MustRegister(
			TranslatorRequestsTotal,
			TranslatorRequestDuration,
			TranslatorTokensTotal,
			TranslatorErrorsTotal,
			DraftCacheTotal,
			QueriesTotal,
			QueryResults,
		)
	})
}
