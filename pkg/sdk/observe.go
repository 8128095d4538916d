package nlquery

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation outcome labels. Query failures are split by error class so a
// dashboard can tell a misbehaving translator from a down store.
const (
	statusOK                = "ok"
	statusInvalidInput      = "invalid_input"
	statusRejected          = "rejected"
	statusTranslationFailed = "translation_failed"
	statusStoreError        = "store_error"
	statusError             = "error"
)

// statusOf maps err to its outcome label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrInvalidInput):
		return statusInvalidInput
	case errors.Is(err, ErrRejected):
		return statusRejected
	case errors.Is(err, ErrTranslationFailed):
		return statusTranslationFailed
	case errors.Is(err, ErrStoreUnavailable):
		return statusStoreError
	default:
		return statusError
	}
}

// callerFault reports whether the failure was caused by the question or the
// draft rather than by the system.
func callerFault(status string) bool {
	return status == statusInvalidInput || status == statusRejected
}

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	results    prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nlquery",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nlquery",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"operation"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nlquery",
			Subsystem: "sdk",
			Name:      "query_results",
			Help:      "Records returned per successful SDK query.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("nlquery: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("nlquery: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// observe records one finished operation. attrs are appended to the log line.
func (o *observer) observe(op string, start time.Time, err error, attrs ...any) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := statusOf(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	args := append([]any{"op", op, "status", status, "duration", dur}, attrs...)
	switch {
	case err == nil:
		o.logger.Debug("operation completed", args...)
	case callerFault(status):
		o.logger.Info("operation refused", append(args, "error", err)...)
	default:
		o.logger.Warn("operation failed", append(args, "error", err)...)
	}
}

// observeQuery is observe for Query, adding result size and cache outcome.
func (o *observer) observeQuery(start time.Time, res *Result, err error) {
	if o == nil {
		return
	}
	if res == nil {
		o.observe("query", start, err)
		return
	}
	if o.metrics != nil {
		o.metrics.results.Observe(float64(res.Count))
	}
	o.observe("query", start, err, "results", res.Count, "cached", res.WasCached)
}
