// File: loop/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Timer wheel as a container/heap min-heap keyed by deadline. This
// completes the pattern the teacher's internal/concurrency/scheduler.go
// sketched (a container/heap-backed timerQ with a notify channel) but left
// unfinished — see DESIGN.md. Timers here are one-shot only: fspoll always
// restarts a fresh one-shot timer per tick for drift compensation
// (spec.md §4.1, §12), so a repeat feature is not needed.

package loop

import "container/heap"

// Timer is a one-shot deadline callback hosted by a Loop.
type Timer struct {
	Handle
	deadline uint64
	index    int
	cb       func()
}

// TimerInit binds t to the loop. Never fails.
func (l *Loop) TimerInit(t *Timer) {
	t.Init(l, KindTimer)
	t.index = -1
}

// TimerStart arms t to fire cb after timeoutMs milliseconds from now.
// Starting an already-active timer first stops it (it is removed and
// re-inserted with the new deadline).
func (l *Loop) TimerStart(t *Timer, cb func(), timeoutMs uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.IsActive() {
		l.removeTimerLocked(t)
	}
	t.cb = cb
	t.deadline = l.Now() + timeoutMs
	t.MarkActive()
	heap.Push(&l.timers, t)
	return nil
}

// TimerStop removes t from the heap if armed. No-op if inactive.
func (l *Loop) TimerStop(t *Timer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !t.IsActive() {
		return
	}
	l.removeTimerLocked(t)
}

func (l *Loop) removeTimerLocked(t *Timer) {
	if t.index >= 0 && t.index < l.timers.Len() {
		heap.Remove(&l.timers, t.index)
	}
	t.MarkInactive()
}

// Active reports whether t is currently armed.
func (t *Timer) Active() bool { return t.IsActive() }

// CloseTimer stops t (if armed) and arranges closeCB to run on the loop
// thread, matching the "close is asynchronous... exactly once" contract
// of spec.md §6.
func (l *Loop) CloseTimer(t *Timer, closeCB func()) {
	l.TimerStop(t)
	t.MakeClosePending(closeCB)
}

// nextTimeout returns how long Run may block in pollIO before the next
// timer is due, in milliseconds, or -1 when no timer is armed. Run bounds
// the actual wait further (see Run).
func (l *Loop) nextTimeout() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timers.Len() == 0 {
		return -1
	}
	now := l.Now()
	next := l.timers[0].deadline
	if next <= now {
		return 0
	}
	d := next - now
	const maxWaitMs = 1000
	if d > maxWaitMs {
		return maxWaitMs
	}
	return int(d)
}

// fireTimers pops and runs every timer whose deadline has passed.
func (l *Loop) fireTimers() {
	now := l.Now()
	for {
		l.mu.Lock()
		if l.timers.Len() == 0 || l.timers[0].deadline > now {
			l.mu.Unlock()
			return
		}
		t := heap.Pop(&l.timers).(*Timer)
		t.MarkInactive()
		l.mu.Unlock()
		if t.cb != nil {
			t.cb()
		}
	}
}

// timerHeap implements container/heap.Interface over *Timer, keyed by
// ascending deadline.
type timerHeap []*Timer

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].deadline < h[j].deadline }
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
