// File: diag/debug.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Control binds Config and Metrics into the single object cmd/evloopd wires
// up at startup, and Snapshot gives an operator a point-in-time text dump,
// adapted from the teacher's control/debug.go probe.

package diag

import (
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Control is the operability surface a loop host exposes: live config plus
// metrics. The host (cmd/evloopd) calls its Record* helpers from its own
// code and callbacks; fspoll and async do not import diag, which keeps the
// domain packages free of the metrics dependency.
type Control struct {
	Config  *Config
	Metrics *Metrics

	activeFsPollers  int64
	activeAsyncHooks int64
}

// NewControl constructs a Control with the given initial settings, backed
// by a fresh, isolated Prometheus registry.
func NewControl(initial Settings) (*Control, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return &Control{
		Config:  NewConfig(initial),
		Metrics: NewMetrics(reg),
	}, reg
}

// RecordFsPollStart/Stop keep the active-handle gauge in sync.
func (c *Control) RecordFsPollStart() {
	n := atomic.AddInt64(&c.activeFsPollers, 1)
	c.Metrics.ActiveFsPollers.Set(float64(n))
}

func (c *Control) RecordFsPollStop() {
	n := atomic.AddInt64(&c.activeFsPollers, -1)
	c.Metrics.ActiveFsPollers.Set(float64(n))
}

func (c *Control) RecordAsyncInit() {
	n := atomic.AddInt64(&c.activeAsyncHooks, 1)
	c.Metrics.ActiveAsyncHooks.Set(float64(n))
}

func (c *Control) RecordAsyncClose() {
	n := atomic.AddInt64(&c.activeAsyncHooks, -1)
	c.Metrics.ActiveAsyncHooks.Set(float64(n))
}

// Snapshot renders the current settings and gauge values as a single line
// of space-separated key=value fields, suitable for a debug endpoint or
// signal handler.
func (c *Control) Snapshot() string {
	s := c.Config.Get()
	return fmt.Sprintf(
		"stat_workers=%d fspoll_min_interval_ms=%d cpu_affinity=%d active_fspollers=%d active_async_hooks=%d",
		s.StatWorkers, s.FsPollMinIntervalMs, s.CPUAffinity,
		atomic.LoadInt64(&c.activeFsPollers), atomic.LoadInt64(&c.activeAsyncHooks),
	)
}
