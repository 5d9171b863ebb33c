package telemetry

import (
	"context"
	"net/http"
	"time"
)

// Noop is a no-op implementation of the Telemetry interface.
// Use this when telemetry is disabled or not needed.
type Noop struct{}

// NewNoop creates a new no-op telemetry adapter.
func NewNoop() *Noop {
	return &Noop{}
}

// RecordOperation does nothing.
func (n *Noop) RecordOperation(context.Context, string, string, time.Duration, int64, error) {}

// Handler responds 404 to everything.
func (n *Noop) Handler() http.Handler {
	return http.NotFoundHandler()
}

// Ensure Noop implements Telemetry interface.
var _ Telemetry = (*Noop)(nil)
