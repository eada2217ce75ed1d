// File: loop/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Handle is the capability set shared by every long-lived object the loop
// drives: FsPoll handles, async handles, timers and I/O watchers are all
// variants of init/start/stop/active/close (spec.md §9, "handle polymorphism").

package loop

// Kind tags which concrete variant a Handle backs, purely for diagnostics.
type Kind int

const (
	KindFsPoll Kind = iota
	KindAsync
	KindTimer
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindFsPoll:
		return "fspoll"
	case KindAsync:
		return "async"
	case KindTimer:
		return "timer"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Handle is embedded by every loop-driven object.
type Handle struct {
	Loop      *Loop
	kind      Kind
	active    bool
	closing   bool
	closed    bool
	unrefed   bool
	closeCB   func()
}

// Init binds the handle to its owning loop. Idempotent, never fails.
func (h *Handle) Init(l *Loop, kind Kind) {
	h.Loop = l
	h.kind = kind
	h.active = false
	h.closing = false
	h.closed = false
}

// Kind reports which variant this handle backs.
func (h *Handle) Kind() Kind { return h.kind }

// MarkActive transitions the handle to the active state.
func (h *Handle) MarkActive() { h.active = true }

// MarkInactive transitions the handle to the inactive state.
func (h *Handle) MarkInactive() { h.active = false }

// IsActive reports whether Start has run without a matching Stop.
func (h *Handle) IsActive() bool { return h.active }

// IsClosing reports whether Close has been called on this handle.
func (h *Handle) IsClosing() bool { return h.closing }

// Unref marks the handle as not keeping the loop alive on its own. The
// loop implemented here always runs until explicitly stopped, so this is
// bookkeeping only — it exists so fspoll's "internal, unreferenced timer"
// language has a concrete counterpart to set.
func (h *Handle) Unref() { h.unrefed = true }

// Unrefed reports the state set by Unref.
func (h *Handle) Unrefed() bool { return h.unrefed }

// MakeClosePending arranges for closeCB to run exactly once on the loop
// thread, then marks the handle closed. If the loop has already been
// stopped, closeCB runs synchronously on the calling goroutine instead
// (there is no drain loop left to defer to) — see postTask.
func (h *Handle) MakeClosePending(closeCB func()) {
	h.closing = true
	h.closeCB = closeCB
	h.Loop.postClose(h)
}

// runClose is invoked by the loop on its own thread.
func (h *Handle) runClose() {
	if h.closed {
		return
	}
	h.closed = true
	if h.closeCB != nil {
		h.closeCB()
	}
}

// Closed reports whether the close callback has already run.
func (h *Handle) Closed() bool { return h.closed }
