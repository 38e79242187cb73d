package model

import (
	"context"
	"time"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/logging"
	"github.com/campusops/adminflow/metrics"
)

// Instrumented decorates a Model with per-call metrics and logging. The
// engine wraps its model once at wiring time, so every classify and compose
// path is observed no matter which agent triggered it.
type Instrumented struct {
	inner   Model
	metrics *metrics.Collector
	logger  *logging.TurnLogger
}

var _ Model = (*Instrumented)(nil)

// NewInstrumented wraps inner. Collector and logger may each be nil to
// disable that channel.
func NewInstrumented(inner Model, collector *metrics.Collector, logger *logging.TurnLogger) *Instrumented {
	return &Instrumented{inner: inner, metrics: collector, logger: logger}
}

// Classify implements Classifier.
func (m *Instrumented) Classify(ctx context.Context, history []core.Message, message string) (Classification, error) {
	start := time.Now()
	cls, err := m.inner.Classify(ctx, history, message)
	m.observe("classify", time.Since(start), err)
	return cls, err
}

// Compose implements Composer. The operation label carries the purpose so
// slow or failing composition tasks can be told apart per capability.
func (m *Instrumented) Compose(ctx context.Context, req ComposeRequest) (string, error) {
	start := time.Now()
	out, err := m.inner.Compose(ctx, req)
	m.observe("compose:"+string(req.Purpose), time.Since(start), err)
	return out, err
}

func (m *Instrumented) observe(operation string, dur time.Duration, err error) {
	if m.logger != nil {
		m.logger.LogModelCall(operation, dur, err)
	}
	if m.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.metrics.ModelCalls.WithLabelValues(operation, status).Inc()
	}
}
