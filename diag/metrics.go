// File: diag/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Metrics wires the fspoll/async domain into Prometheus client_golang,
// adapted from the teacher's control/metrics.go (which instruments reactor
// and session counts) and grounded on syncthing's use of client_golang for
// a long-running daemon's operability surface.

package diag

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters and gauges exported by a running loop host.
//
// Only events that cross a package boundary into something diag already
// observes are instrumented here: fspoll and loop stay free of a metrics
// dependency (they do not import diag), so there is
// deliberately no per-tick or per-timer-fire counter — cmd/evloopd's own
// callbacks are the only call sites that can report FsPoll/async activity
// without that coupling.
type Metrics struct {
	FsPollCallbacks  prometheus.Counter
	FsPollErrors     prometheus.Counter
	AsyncSends       prometheus.Counter
	AsyncCallbacks   prometheus.Counter
	ActiveFsPollers  prometheus.Gauge
	ActiveAsyncHooks prometheus.Gauge
}

// NewMetrics constructs and registers a Metrics set against reg. Passing a
// fresh prometheus.NewRegistry() keeps tests isolated from the default
// global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FsPollCallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evloop", Subsystem: "fspoll", Name: "callbacks_total",
			Help: "Number of fspoll change/error callbacks delivered.",
		}),
		FsPollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evloop", Subsystem: "fspoll", Name: "errors_total",
			Help: "Number of distinct (deduplicated) fspoll stat errors delivered.",
		}),
		AsyncSends: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evloop", Subsystem: "async", Name: "sends_total",
			Help: "Number of async.Send calls made by the host, before coalescing.",
		}),
		AsyncCallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evloop", Subsystem: "async", Name: "callbacks_total",
			Help: "Number of async callback invocations delivered.",
		}),
		ActiveFsPollers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "evloop", Subsystem: "fspoll", Name: "active_handles",
			Help: "Number of currently active fspoll handles.",
		}),
		ActiveAsyncHooks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "evloop", Subsystem: "async", Name: "active_handles",
			Help: "Number of currently registered async handles.",
		}),
	}
	reg.MustRegister(
		m.FsPollCallbacks, m.FsPollErrors,
		m.AsyncSends, m.AsyncCallbacks,
		m.ActiveFsPollers, m.ActiveAsyncHooks,
	)
	return m
}
