// File: loop/timer_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerFiresAfterDelay(t *testing.T) {
	l := New()
	var timer Timer
	l.TimerInit(&timer)

	fired := make(chan struct{})
	if err := l.TimerStart(&timer, func() { close(fired) }, 20); err != nil {
		t.Fatalf("TimerStart: %v", err)
	}

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	defer func() {
		l.Stop()
		<-done
	}()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestTimerStopPreventsFire(t *testing.T) {
	l := New()
	var timer Timer
	l.TimerInit(&timer)

	var fired int32
	if err := l.TimerStart(&timer, func() { atomic.AddInt32(&fired, 1) }, 30); err != nil {
		t.Fatalf("TimerStart: %v", err)
	}
	l.TimerStop(&timer)
	if timer.Active() {
		t.Fatal("timer should be inactive after Stop")
	}

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	time.Sleep(80 * time.Millisecond)
	l.Stop()
	<-done

	if atomic.LoadInt32(&fired) != 0 {
		t.Fatalf("expected stopped timer never to fire, got %d", fired)
	}
}

func TestTimerRestartUsesLatestDeadline(t *testing.T) {
	l := New()
	var timer Timer
	l.TimerInit(&timer)

	var calls int32
	cb := func() { atomic.AddInt32(&calls, 1) }

	if err := l.TimerStart(&timer, cb, 1000); err != nil {
		t.Fatalf("TimerStart: %v", err)
	}
	if err := l.TimerStart(&timer, cb, 20); err != nil {
		t.Fatalf("TimerStart (restart): %v", err)
	}

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)
	l.Stop()
	<-done

	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly one fire from the restarted deadline, got %d", calls)
	}
}

func TestNextTimeoutNoTimers(t *testing.T) {
	l := New()
	if got := l.nextTimeout(); got != -1 {
		t.Fatalf("expected -1 with no timers armed, got %d", got)
	}
}
