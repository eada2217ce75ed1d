// File: async/async_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package async

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/evloop/loop"
	"github.com/momentics/evloop/loop/looptest"
)

func TestSendCoalescesBeforeDrain(t *testing.T) {
	l := loop.New()
	var h Handle
	var calls int32
	if err := Init(l, &h, func(h *Handle) { atomic.AddInt32(&calls, 1) }); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Send(&h)
		}()
	}
	wg.Wait()

	looptest.RunFor(l, 100*time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly one coalesced callback, got %d", got)
	}
}

func TestSendAtLeastOnce(t *testing.T) {
	l := loop.New()
	var h Handle
	done := make(chan struct{})
	if err := Init(l, &h, func(h *Handle) { close(done) }); err != nil {
		t.Fatalf("Init: %v", err)
	}

	stop := looptest.RunUntil(l)
	defer stop()

	Send(&h)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never invoked")
	}
}

func TestNoPostCloseCallback(t *testing.T) {
	l := loop.New()
	var h Handle
	var calls int32
	if err := Init(l, &h, func(h *Handle) { atomic.AddInt32(&calls, 1) }); err != nil {
		t.Fatalf("Init: %v", err)
	}

	stop := looptest.RunUntil(l)

	closed := make(chan struct{})
	l.Post(func() {
		Close(&h, func() { close(closed) })
	})

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close callback never ran")
	}

	Send(&h)
	time.Sleep(50 * time.Millisecond)
	stop()

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("expected zero callbacks after close, got %d", got)
	}
}

func TestSendFromInsideOwnCallback(t *testing.T) {
	l := loop.New()
	var h Handle
	var calls int32
	const rounds = 5
	turnDone := make(chan struct{}, rounds+1)

	if err := Init(l, &h, func(h *Handle) {
		n := atomic.AddInt32(&calls, 1)
		if n <= rounds {
			Send(h)
		}
		turnDone <- struct{}{}
	}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	stop := looptest.RunUntil(l)
	defer stop()

	Send(&h)

	for i := 0; i < rounds; i++ {
		select {
		case <-turnDone:
		case <-time.After(time.Second):
			t.Fatalf("round %d: callback never re-invoked", i)
		}
	}

	if got := atomic.LoadInt32(&calls); got < rounds {
		t.Fatalf("expected at least %d invocations, got %d", rounds, got)
	}
}
