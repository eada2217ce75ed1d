// File: loop/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Loop is the single-threaded cooperative host: timer callbacks, stat
// completions, and I/O watcher callbacks all run serialized on whichever
// goroutine calls Run (spec.md §5). Any other goroutine reaches the loop
// either through postTask, which is how Post and the stat worker pool hand
// work back to the loop thread, or through a descriptor registered with the
// I/O backend, which is how async.Send's wakeup descriptor does.

package loop

import (
	"log"
	"os"
	"sync"
	"time"

	evrt "github.com/momentics/evloop/internal/runtime"
)

const defaultStatWorkers = 4

// Loop hosts the timer wheel, stat dispatcher and I/O poller that fspoll
// and async are built on.
type Loop struct {
	start time.Time

	timers   timerHeap
	timerSeq uint64

	statPool *evrt.StatPool

	io        ioBackend
	ioRunning bool

	tasks chan func()

	mu       sync.Mutex // protects timers and io registration from cross-goroutine posts
	runOnce  sync.Once
	stopCh   chan struct{}
	stopped  bool
	cpuID    int
}

// Option configures a Loop at construction time.
type Option func(*Loop)

// WithCPUAffinity pins the loop's driving goroutine to the given logical
// CPU once Run starts. cpuID < 0 (the default) requests no pinning.
func WithCPUAffinity(cpuID int) Option {
	return func(l *Loop) { l.cpuID = cpuID }
}

// WithStatWorkers overrides the stat dispatch pool size.
func WithStatWorkers(n int) Option {
	return func(l *Loop) {
		if l.statPool != nil {
			l.statPool.Close()
		}
		l.statPool = evrt.NewStatPool(n)
	}
}

// New constructs a Loop ready to run.
func New(opts ...Option) *Loop {
	l := &Loop{
		start:    time.Now(),
		tasks:    make(chan func(), 1024),
		stopCh:   make(chan struct{}),
		statPool: evrt.NewStatPool(defaultStatWorkers),
		cpuID:    -1,
	}
	backend, err := newIOBackend()
	if err != nil {
		// The I/O backend only matters once something registers a
		// descriptor (the async dispatcher, lazily); postpone the
		// failure until then instead of refusing to construct a Loop
		// that might only ever use fspoll.
		l.io = failedIOBackend{err: err}
	} else {
		l.io = backend
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the loop's monotonic clock in milliseconds.
func (l *Loop) Now() uint64 {
	return uint64(time.Since(l.start).Milliseconds())
}

// postTask schedules fn to run on the loop thread at the next opportunity.
// Safe to call from any goroutine. If the loop has already been stopped, fn
// runs synchronously on the calling goroutine instead: once Stop has run,
// Run's drain loop may already have exited, so a task handed to l.tasks at
// that point could sit forever with nothing left to pick it up. Checking
// l.stopped under l.mu (the same lock Stop takes to flip it) also avoids
// racing a buffered channel send against an already-closed stopCh, which a
// bare `select { case l.tasks <- fn: ; case <-l.stopCh: }` would resolve by
// uniform random choice — silently dropping fn about half the time.
func (l *Loop) postTask(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		fn()
		return
	}
	select {
	case l.tasks <- fn:
		l.mu.Unlock()
	default:
		l.mu.Unlock()
		select {
		case l.tasks <- fn:
		case <-l.stopCh:
			fn()
		}
	}
}

func (l *Loop) postClose(h *Handle) {
	l.postTask(h.runClose)
}

// Post schedules fn to run on the loop thread at the next opportunity.
// Safe to call from any goroutine; this is how operations that must
// execute on the loop thread (e.g. async.Close) get there from elsewhere.
func (l *Loop) Post(fn func()) {
	l.postTask(fn)
}

// fatal reports a violated loop invariant and aborts the process, matching
// spec.md §7's "fatal invariants" policy (no local recovery is sensible
// from a broken handshake or scheduling failure).
func fatal(format string, args ...any) {
	log.Printf("evloop: fatal: "+format, args...)
	os.Exit(2)
}

// Fatal reports a broken invariant detected by a collaborator outside this
// package (fspoll's reschedule failure, async's handshake violations) and
// aborts the process, matching spec.md §7's "fatal invariants" policy.
func Fatal(format string, args ...any) {
	fatal(format, args...)
}

// Run drives the loop until Stop is called. It is intended to be the only
// thing the calling goroutine does; fspoll/async callbacks all execute
// here.
func (l *Loop) Run() {
	if l.cpuID >= 0 {
		if err := evrt.Pin(l.cpuID); err != nil {
			log.Printf("evloop: cpu pin failed: %v", err)
		}
		defer evrt.Unpin()
	}
	for {
		select {
		case <-l.stopCh:
			l.drainTasks()
			return
		default:
		}

		// Post and Stop do not wake the I/O backend, so the wait is bounded
		// to keep posted tasks and a Stop from sitting behind an idle poll.
		const maxPollWaitMs = 10
		timeout := l.nextTimeout()
		if timeout < 0 || timeout > maxPollWaitMs {
			timeout = maxPollWaitMs
		}
		l.pollIO(timeout)
		l.fireTimers()
		l.drainTasksNonBlocking()
	}
}

// Stop halts Run after the current iteration.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		close(l.stopCh)
	}
	l.mu.Unlock()
}

func (l *Loop) drainTasks() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}

func (l *Loop) drainTasksNonBlocking() {
	for i := 0; i < 256; i++ {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}

// ResetAfterFork tears down and recreates the I/O backend, matching
// async.c's fork handling (spec.md §4.2 "Fork handling"): descriptors from
// the parent are stale in the child.
func (l *Loop) ResetAfterFork() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.io != nil {
		_ = l.io.Close()
	}
	backend, err := newIOBackend()
	if err != nil {
		l.io = failedIOBackend{err: err}
		return
	}
	l.io = backend
}
