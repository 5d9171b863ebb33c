// Package telemetry provides telemetry adapters for wrapper operations.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Telemetry records wrapper operations. It satisfies runtime.Recorder.
type Telemetry interface {
	// RecordOperation records one table operation.
	RecordOperation(ctx context.Context, table, operation string, duration time.Duration, rows int64, err error)

	// Handler exposes the collected metrics over HTTP.
	Handler() http.Handler
}

// TelemetryType represents the type of telemetry.
type TelemetryType string

const (
	// TypeNoop is the no-op telemetry type.
	TypeNoop TelemetryType = "noop"

	// TypePrometheus is the Prometheus telemetry type.
	TypePrometheus TelemetryType = "prometheus"
)

// Config holds telemetry configuration.
type Config struct {
	// Type is the telemetry type (noop, prometheus).
	Type string

	// Namespace prefixes every metric name.
	Namespace string
}

// New creates a telemetry adapter based on configuration.
func New(config *Config) (Telemetry, error) {
	if config == nil {
		return NewNoop(), nil
	}

	switch TelemetryType(config.Type) {
	case TypeNoop, "":
		return NewNoop(), nil

	case TypePrometheus:
		return NewPrometheus(config), nil

	default:
		return nil, fmt.Errorf("unknown telemetry type: %s", config.Type)
	}
}
