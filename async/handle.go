// File: async/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package async

import (
	"sync/atomic"

	"github.com/momentics/evloop/loop"
)

// Callback is invoked on the loop thread once per coalesced Send burst.
type Callback func(h *Handle)

// pending tri-state values (spec.md §4.2).
const (
	pendingIdle     int32 = 0
	pendingClaimed  int32 = 1
	pendingWritten  int32 = 2
)

// Handle is a cross-thread wakeup notifier.
type Handle struct {
	loop.Handle
	cb         Callback
	pending    int32
	dispatcher *Dispatcher
}

// Init ensures l's dispatcher exists, registers h with it, and arms h for
// Send. Idempotent with respect to dispatcher creation.
func Init(l *loop.Loop, h *Handle, cb Callback) error {
	d, err := dispatcherFor(l)
	if err != nil {
		return err
	}
	h.Handle.Init(l, loop.KindAsync)
	h.cb = cb
	atomic.StoreInt32(&h.pending, pendingIdle)
	h.dispatcher = d
	d.addHandle(h)
	h.MarkActive()
	return nil
}

// Close must run on the loop thread. It spin-waits for any producer
// mid-critical-section, then unlinks h from the dispatcher so no further
// callback invocation is possible once Close returns.
func Close(h *Handle, closeCB func()) {
	spinUntilNotClaimed(h)
	if h.dispatcher != nil {
		h.dispatcher.removeHandle(h)
	}
	h.MarkInactive()
	h.Handle.MakeClosePending(closeCB)
}
