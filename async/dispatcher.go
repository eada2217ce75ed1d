// File: async/dispatcher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Dispatcher is the loop-owned singleton described in spec.md §3: one
// wakeup descriptor, one I/O watcher registered for its read-readiness, and
// the list of registered async handles. The handle list uses
// github.com/eapache/queue, the teacher's ring-buffer-backed FIFO — declared
// in the teacher's go.mod but unused by its own code; here it backs the
// "move to a local queue, re-append while processing" drain the spec calls
// for, which is exactly a queue's natural access pattern.
//
// Go cannot host this singleton as a field on loop.Loop without an import
// cycle (loop would have to import async), so it is kept in a side table
// keyed by *loop.Loop instead; operationally it is still "the loop's"
// dispatcher; only one exists per Loop and it is created on first Init.

package async

import (
	"fmt"
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/evloop/internal/wakeup"
	"github.com/momentics/evloop/loop"
	"github.com/momentics/evloop/pool"
)

// scratchPool reuses the wakeup-descriptor drain buffer across dispatch
// cycles rather than allocating one per call, adapted from the teacher's
// pool.SyncPool (pool/objpool.go).
var scratchPool = pool.NewSyncPool(func() *[64]byte { return new([64]byte) })

// Dispatcher owns the wakeup descriptor and the registered handle list for
// one Loop.
type Dispatcher struct {
	loop *loop.Loop

	mu   sync.Mutex // guards desc across Send (any thread) and fork reset
	desc wakeup.Descriptor

	watcher loop.IOWatcher
	handles *queue.Queue // *Handle elements; loop-thread-only
}

var (
	dispatchersMu sync.Mutex
	dispatchers   = map[*loop.Loop]*Dispatcher{}
)

// dispatcherFor returns l's dispatcher, creating it lazily on first call.
func dispatcherFor(l *loop.Loop) (*Dispatcher, error) {
	dispatchersMu.Lock()
	defer dispatchersMu.Unlock()
	if d, ok := dispatchers[l]; ok {
		return d, nil
	}
	d, err := newDispatcher(l)
	if err != nil {
		return nil, err
	}
	dispatchers[l] = d
	return d, nil
}

func newDispatcher(l *loop.Loop) (*Dispatcher, error) {
	desc, err := wakeup.New()
	if err != nil {
		return nil, fmt.Errorf("async: wakeup descriptor: %w", err)
	}
	d := &Dispatcher{loop: l, desc: desc, handles: queue.New()}
	l.IOInit(&d.watcher, desc.ReadFD, d.onReadable)
	if err := l.IOStart(&d.watcher); err != nil {
		_ = desc.Close()
		return nil, fmt.Errorf("async: io start: %w", err)
	}
	return d, nil
}

// ForkReset tears down and recreates l's dispatcher descriptor and
// I/O watcher in a post-fork child, where inherited descriptors are stale.
// The handle list itself survives untouched (spec.md §4.2 "Fork handling").
// A no-op if l has no dispatcher yet.
func ForkReset(l *loop.Loop) error {
	dispatchersMu.Lock()
	d, ok := dispatchers[l]
	dispatchersMu.Unlock()
	if !ok {
		return nil
	}
	return d.resetAfterFork()
}

func (d *Dispatcher) resetAfterFork() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_ = d.loop.IOStop(&d.watcher)
	_ = d.desc.Close()

	desc, err := wakeup.New()
	if err != nil {
		return fmt.Errorf("async: wakeup descriptor: %w", err)
	}
	d.desc = desc
	d.loop.IOInit(&d.watcher, desc.ReadFD, d.onReadable)
	if err := d.loop.IOStart(&d.watcher); err != nil {
		return fmt.Errorf("async: io start: %w", err)
	}
	return nil
}

func (d *Dispatcher) writeDescriptor() wakeup.Descriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.desc
}

func (d *Dispatcher) addHandle(h *Handle) {
	d.handles.Add(h)
}

// removeHandle rebuilds the queue without h. Only ever called from the loop
// thread (Close's contract).
func (d *Dispatcher) removeHandle(h *Handle) {
	n := d.handles.Length()
	for i := 0; i < n; i++ {
		v := d.handles.Remove()
		if v.(*Handle) != h {
			d.handles.Add(v)
		}
	}
}

// onReadable is the loop thread's I/O watcher callback for the wakeup
// descriptor: drain it, then run the spin-consume protocol over every
// registered handle.
func (d *Dispatcher) onReadable(readable bool) {
	if !readable {
		return
	}
	d.drainDescriptor()
	d.dispatch()
}

func (d *Dispatcher) drainDescriptor() {
	buf := scratchPool.Get() // *[64]byte; buf[:] slices the pointed-to array
	defer scratchPool.Put(buf)
	for {
		n, err := wakeup.Read(d.desc.ReadFD, buf[:])
		if err != nil {
			if wakeup.IsEAGAIN(err) {
				return
			}
			loop.Fatal("async: wakeup descriptor read failed: %v", err)
		}
		if n < len(buf) {
			return
		}
	}
}

// dispatch atomically moves the handle list into a local queue, then
// re-appends each visited element to the dispatcher's list before running
// its spin-consume step, so a callback that registers or sends to another
// async handle mid-drain is handled fairly and safely (spec.md §4.2 step 2).
func (d *Dispatcher) dispatch() {
	local := d.handles
	d.handles = queue.New()
	for local.Length() > 0 {
		h := local.Remove().(*Handle)
		d.handles.Add(h)
		if spinConsume(h) && h.cb != nil {
			h.cb(h)
		}
	}
}
