package easytrans

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics recorded per client operation.
// Attach an instance via Config.Metrics to enable instrumentation.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	APIErrors       *prometheus.CounterVec
}

// NewMetrics creates and registers the metrics on the default registry.
// Call it at most once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easytrans_requests_total",
				Help: "Total number of EasyTrans API requests by operation and status",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "easytrans_request_duration_seconds",
				Help:    "EasyTrans API request duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		APIErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easytrans_api_errors_total",
				Help: "Total EasyTrans API errors by operation and error kind",
			},
			[]string{"operation", "kind"},
		),
	}
}

// observe records the outcome of a single operation.
func (m *Metrics) observe(operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
		var apiErr *Error
		if errors.As(err, &apiErr) {
			m.APIErrors.WithLabelValues(operation, string(apiErr.Kind)).Inc()
		} else {
			m.APIErrors.WithLabelValues(operation, "unknown").Inc()
		}
	}
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
