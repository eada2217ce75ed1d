// File: internal/runtime/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// StatPool runs the loop's asynchronous stat operations off the loop thread.
// Adapted from the teacher's internal/concurrency/executor.go: per-worker
// lock-free local queues with a buffered-channel fallback, round-robin
// submission, panic-recovering task execution. Simplified from the
// teacher's NUMA-aware version since the loop only ever has a handful of
// stat requests in flight at once.

package runtime

import (
	"errors"
	"sync/atomic"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("runtime: stat pool closed")

// StatPool is a small fixed worker pool for blocking stat syscalls.
type StatPool struct {
	globalQueue chan func()
	localQueues []*lockFreeQueue
	notify      []chan struct{}
	stopCh      chan struct{}
	closed      int32
	numWorkers  int32
	submitted   int64
}

// NewStatPool creates a pool of numWorkers goroutines. If numWorkers <= 0,
// it defaults to NumCPUs().
func NewStatPool(numWorkers int) *StatPool {
	if numWorkers <= 0 {
		numWorkers = NumCPUs()
	}
	p := &StatPool{
		globalQueue: make(chan func(), numWorkers*4),
		stopCh:      make(chan struct{}),
		numWorkers:  int32(numWorkers),
	}
	p.localQueues = make([]*lockFreeQueue, numWorkers)
	p.notify = make([]chan struct{}, numWorkers)
	for i := range p.localQueues {
		p.localQueues[i] = newLockFreeQueue(64)
		p.notify[i] = make(chan struct{}, 1)
	}
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(p.localQueues[i], p.notify[i])
	}
	return p
}

// Submit enqueues a blocking stat job for execution on a pool goroutine. A
// successful local enqueue is paired with a non-blocking notify send, since
// the local queue itself has no way to wake a worker parked in runWorker's
// select — a plain atomic store into the ring buffer is otherwise invisible
// to a goroutine already blocked there.
func (p *StatPool) Submit(job func()) error {
	if atomic.LoadInt32(&p.closed) == 1 {
		return ErrPoolClosed
	}
	idx := int(atomic.AddInt64(&p.submitted, 1)) % len(p.localQueues)
	if p.localQueues[idx].Enqueue(job) {
		select {
		case p.notify[idx] <- struct{}{}:
		default:
		}
		return nil
	}
	select {
	case p.globalQueue <- job:
		return nil
	case <-p.stopCh:
		return ErrPoolClosed
	}
}

// Close stops accepting work; in-flight jobs still run to completion.
func (p *StatPool) Close() {
	if atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		close(p.stopCh)
	}
}

func (p *StatPool) runWorker(local *lockFreeQueue, notify chan struct{}) {
	for {
		if job, ok := local.Dequeue(); ok {
			p.execute(job)
			continue
		}
		select {
		case <-notify:
			// A Submit raced us between the Dequeue above and this select;
			// loop back around to drain whatever it left in local.
		case job := <-p.globalQueue:
			p.execute(job)
		case <-p.stopCh:
			// Drain whatever remains in the local queue before exiting.
			for {
				job, ok := local.Dequeue()
				if !ok {
					return
				}
				p.execute(job)
			}
		}
	}
}

func (p *StatPool) execute(job func()) {
	defer func() {
		_ = recover()
	}()
	job()
}
