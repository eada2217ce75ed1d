// File: async/send.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Send is the only operation in this package safe to call from any thread.
// The producer protocol (spec.md §4.2) is an atomic load followed by two
// compare-and-swap transitions (0->1, 1->2) guarding one write to the
// dispatcher's wakeup descriptor; any unexpected failure
// at any step indicates broken loop state and aborts the process rather
// than returning an error the caller could plausibly recover from.

package async

import (
	"sync/atomic"

	"github.com/momentics/evloop/loop"
	"github.com/momentics/evloop/internal/wakeup"
)

// Send requests that h's callback run on the loop thread. Any number of
// concurrent or back-to-back calls before the loop's next drain coalesce
// into a single invocation. Never blocks.
func Send(h *Handle) {
	if atomic.LoadInt32(&h.pending) != pendingIdle {
		return // coalescing fast path: already claimed or written
	}
	if !atomic.CompareAndSwapInt32(&h.pending, pendingIdle, pendingClaimed) {
		return // another producer won the race
	}

	desc := h.dispatcher.writeDescriptor()
	n, err := wakeup.WriteToken(desc.WriteFD, desc.Counter)
	if err != nil && !wakeup.IsEAGAIN(err) {
		loop.Fatal("async: wakeup descriptor write failed: %v", err)
	}
	_ = n // EAGAIN is benign: the descriptor is already marked readable

	if !atomic.CompareAndSwapInt32(&h.pending, pendingClaimed, pendingWritten) {
		loop.Fatal("async: pending state corrupted between claim and publish")
	}
}
