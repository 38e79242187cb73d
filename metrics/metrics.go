// Package metrics collects Prometheus instrumentation for the orchestration
// engine. A Collector is created against an explicit Registerer so tests can
// use fresh registries without global state collisions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector bundles every metric the engine emits.
type Collector struct {
	// TurnsTotal counts completed turns labelled by terminal outcome
	// (responded, step_limit, timeout, canceled, internal, lock_timeout).
	TurnsTotal *prometheus.CounterVec

	// TurnSteps observes the step count of each completed turn.
	TurnSteps prometheus.Histogram

	// ToolInvocations counts tool adapter calls by capability and status.
	ToolInvocations *prometheus.CounterVec

	// ModelCalls counts classifier/composer calls by operation and status.
	ModelCalls *prometheus.CounterVec

	// TraceWriteFailures counts swallowed trace persistence errors. The
	// recorder never fails a turn on a write error; this is the only
	// place those errors become visible.
	TraceWriteFailures prometheus.Counter

	// SessionsEvicted counts sessions removed by idle eviction.
	SessionsEvicted prometheus.Counter
}

// NewCollector registers all engine metrics against reg. Passing nil uses
// the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		TurnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adminflow",
			Name:      "turns_total",
			Help:      "Completed turns by terminal outcome",
		}, []string{"outcome"}),
		TurnSteps: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "adminflow",
			Name:      "turn_steps",
			Help:      "Steps taken per completed turn",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}),
		ToolInvocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adminflow",
			Name:      "tool_invocations_total",
			Help:      "Tool adapter invocations by capability and status",
		}, []string{"capability", "status"}),
		ModelCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adminflow",
			Name:      "model_calls_total",
			Help:      "Language model calls by operation and status",
		}, []string{"operation", "status"}),
		TraceWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "adminflow",
			Name:      "trace_write_failures_total",
			Help:      "Trace records dropped due to persistence errors",
		}),
		SessionsEvicted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "adminflow",
			Name:      "sessions_evicted_total",
			Help:      "Sessions removed by idle eviction",
		}),
	}
}

// NewTestCollector returns a Collector bound to a throwaway registry.
func NewTestCollector() *Collector {
	return NewCollector(prometheus.NewRegistry())
}
