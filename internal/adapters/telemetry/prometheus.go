package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements Telemetry with Prometheus metrics on its own
// registry, so several instances can coexist.
type Prometheus struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	rows       *prometheus.CounterVec
}

// NewPrometheus creates a new Prometheus telemetry adapter.
func NewPrometheus(config *Config) *Prometheus {
	namespace := "hdbwrap"
	if config != nil && config.Namespace != "" {
		namespace = config.Namespace
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Prometheus{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of table operations",
			},
			[]string{"table", "operation", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Table operation latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"table", "operation"},
		),
		rows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_total",
				Help:      "Rows returned or affected by table operations",
			},
			[]string{"table", "operation"},
		),
	}
}

// RecordOperation records one table operation.
func (p *Prometheus) RecordOperation(_ context.Context, table, operation string, duration time.Duration, rows int64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.operations.WithLabelValues(table, operation, status).Inc()
	p.duration.WithLabelValues(table, operation).Observe(duration.Seconds())
	if rows > 0 {
		p.rows.WithLabelValues(table, operation).Add(float64(rows))
	}
}

// Handler returns the Prometheus HTTP handler for /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the metrics live in.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

var _ Telemetry = (*Prometheus)(nil)
