// File: async/spin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The spin-consume discipline of spec.md §4.2/§5: a bounded run of CPU-relax
// checks before yielding the goroutine scheduler, repeated until the
// producer's critical section ends. 997 matches the source's choice of a
// prime spin count; Go has no portable CPU-pause intrinsic outside the
// runtime package, so the relax iterations re-check the atomic itself,
// which both relaxes and makes forward progress visible as soon as it
// happens.

package async

import (
	"runtime"
	"sync/atomic"
)

const spinIterations = 997

// spinUntilNotClaimed blocks the calling goroutine until pending is
// anything other than pendingClaimed (1).
func spinUntilNotClaimed(h *Handle) {
	for atomic.LoadInt32(&h.pending) == pendingClaimed {
		relax(h)
	}
}

// spinConsume implements the consumer's per-handle protocol: repeatedly CAS
// 2->0. Returns true if it consumed a notification, false if the handle
// was not actually pending (a spurious wakeup from coalescing).
func spinConsume(h *Handle) bool {
	for {
		if atomic.CompareAndSwapInt32(&h.pending, pendingWritten, pendingIdle) {
			return true
		}
		if atomic.LoadInt32(&h.pending) == pendingIdle {
			return false
		}
		relax(h)
	}
}

func relax(h *Handle) {
	for i := 0; i < spinIterations; i++ {
		if atomic.LoadInt32(&h.pending) != pendingClaimed {
			return
		}
	}
	runtime.Gosched()
}
