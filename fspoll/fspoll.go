// File: fspoll/fspoll.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The polling algorithm and restart-chain bookkeeping below follow
// spec.md §4.1 step for step; the surrounding Handle/Init/Start/Stop/Close
// shape follows the loop package's handle-polymorphism convention
// (loop/handle.go, loop/timer.go).

package fspoll

import "github.com/momentics/evloop/loop"

// Callback is invoked on the loop thread when a watched path's metadata
// changes, when a stat error first occurs (or changes), or when a prior
// error clears. status is 0 on success or a negative errno-style code;
// prev and curr are only meaningful together when status is 0.
type Callback func(h *Handle, status int32, prev, curr loop.StatSnapshot)

// Handle is a user-visible path watcher.
type Handle struct {
	loop.Handle
	cb           Callback
	ctx          *pollContext
	pendingClose func()
}

// pollContext is the per-start record described by spec.md §3. A new Start
// call allocates a fresh context and, if one is already attached, chains it
// via previous rather than discarding it, since an in-flight stat on the
// old context cannot be cancelled.
type pollContext struct {
	handle    *Handle
	path      string
	interval  uint64
	startTime uint64

	snapshot    loop.StatSnapshot
	busyPolling int32 // 0: no prior sample, 1: steady state, <0: sticky error code

	timer   loop.Timer
	statReq loop.StatRequest

	previous *pollContext
}

// Init binds h to l and clears any prior context. Idempotent, never fails.
func Init(l *loop.Loop, h *Handle) {
	h.Handle.Init(l, loop.KindFsPoll)
	h.ctx = nil
	h.pendingClose = nil
}

// Start begins watching path every intervalMs milliseconds, coerced to at
// least 1ms. A no-op returning success if h is already active.
func Start(h *Handle, cb Callback, path string, intervalMs uint64) error {
	if h.IsActive() {
		return nil
	}
	if intervalMs == 0 {
		intervalMs = 1
	}

	ctx := &pollContext{
		handle:    h,
		path:      path,
		interval:  intervalMs,
		startTime: h.Loop.Now(),
	}
	h.Loop.TimerInit(&ctx.timer)
	ctx.timer.Unref()

	if h.ctx != nil {
		ctx.previous = h.ctx
	}
	h.ctx = ctx
	h.cb = cb
	h.MarkActive()

	return dispatchStat(ctx)
}

// Stop deactivates h. A stat already in flight keeps running; its
// completion observes the inactive state and quiesces without notifying.
// No-op if h is already inactive.
func Stop(h *Handle) {
	if !h.IsActive() {
		return
	}
	h.MarkInactive()
	ctx := h.ctx
	if ctx == nil {
		return
	}
	if ctx.timer.Active() {
		h.Loop.CloseTimer(&ctx.timer, func() { unlinkContext(ctx) })
	}
	// else: a stat is in flight; onStatComplete's staleness check will
	// close ctx's timer once it observes the handle is no longer active.
}

// GetPath copies the active context's path into buf as a NUL-terminated
// string, returning the path length excluding the terminator. If buf is
// too small, returns the required length (including terminator) and
// ErrNoBuffer.
func GetPath(h *Handle, buf []byte) (int, error) {
	if !h.IsActive() || h.ctx == nil {
		return 0, ErrInvalidArgument
	}
	path := h.ctx.path
	needed := len(path) + 1
	if len(buf) < needed {
		return needed, ErrNoBuffer
	}
	copy(buf, path)
	buf[len(path)] = 0
	return len(path), nil
}

// Close stops h (if active) and arranges closeCB to run on the loop thread.
// If a context is still draining an in-flight stat or timer close, closeCB
// is deferred until the last context has finished closing.
func Close(h *Handle, closeCB func()) {
	Stop(h)
	if h.ctx == nil {
		h.Handle.MakeClosePending(closeCB)
		return
	}
	h.pendingClose = closeCB
}

func dispatchStat(ctx *pollContext) error {
	return ctx.handle.Loop.FsStat(&ctx.statReq, ctx.path, func(req *loop.StatRequest, snap loop.StatSnapshot, err error) {
		onStatComplete(ctx, snap, err)
	})
}

// onStatComplete runs the five-step decision procedure of spec.md §4.1 on
// every stat completion, whether from the initial start or a subsequent
// timer-driven re-sample.
func onStatComplete(ctx *pollContext, snap loop.StatSnapshot, err error) {
	h := ctx.handle

	stale := h.ctx != ctx
	if stale || !h.IsActive() || h.IsClosing() {
		h.Loop.CloseTimer(&ctx.timer, func() { unlinkContext(ctx) })
		return
	}

	code := codeFromErr(err)
	switch {
	case code != 0:
		if ctx.busyPolling != code {
			prev := ctx.snapshot
			ctx.busyPolling = code
			invoke(h, code, prev, loop.StatSnapshot{})
		}
	default:
		if ctx.busyPolling != 0 && (ctx.busyPolling < 0 || !ctx.snapshot.Equal(snap)) {
			invoke(h, 0, ctx.snapshot, snap)
		}
		ctx.snapshot = snap
		ctx.busyPolling = 1
	}

	reschedule(ctx)
}

func invoke(h *Handle, status int32, prev, curr loop.StatSnapshot) {
	if h.cb != nil {
		h.cb(h, status, prev, curr)
	}
}

// reschedule arms ctx's timer with drift compensation: the next delay is
// chosen so ticks converge on start_time + k*interval regardless of how
// long the stat round-trip took (spec.md §4.1 step 5).
func reschedule(ctx *pollContext) {
	h := ctx.handle
	now := h.Loop.Now()
	elapsed := now - ctx.startTime
	delay := ctx.interval - (elapsed % ctx.interval)
	if err := h.Loop.TimerStart(&ctx.timer, func() { onTimerFire(ctx) }, delay); err != nil {
		loop.Fatal("fspoll: timer reschedule failed: %v", err)
	}
}

// onTimerFire re-anchors the tick origin to "now" and issues the next stat.
func onTimerFire(ctx *pollContext) {
	ctx.startTime = ctx.handle.Loop.Now()
	if err := dispatchStat(ctx); err != nil {
		loop.Fatal("fspoll: stat dispatch failed: %v", err)
	}
}

// unlinkContext splices ctx out of its handle's chain by walking from the
// head, per spec.md §4.1's restart-chaining rationale, and finalizes a
// pending Close once no context remains.
func unlinkContext(ctx *pollContext) {
	h := ctx.handle
	switch {
	case h.ctx == ctx:
		h.ctx = ctx.previous
	default:
		for cur := h.ctx; cur != nil; cur = cur.previous {
			if cur.previous == ctx {
				cur.previous = ctx.previous
				break
			}
		}
	}
	if h.ctx == nil && h.pendingClose != nil {
		cb := h.pendingClose
		h.pendingClose = nil
		h.Handle.MakeClosePending(cb)
	}
}
