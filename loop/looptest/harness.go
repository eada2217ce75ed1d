// File: loop/looptest/harness.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package looptest is the hand-rolled test harness fspoll/async/loop tests
// share, in the teacher's style of hand-rolled fakes under fake/ and
// tests/fake/ rather than a mocking framework.

package looptest

import (
	"time"

	"github.com/momentics/evloop/loop"
)

// RunFor starts l.Run on a background goroutine, lets it run for d, then
// stops it and waits for Run to return.
func RunFor(l *loop.Loop, d time.Duration) {
	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	time.Sleep(d)
	l.Stop()
	<-done
}

// RunUntil starts l.Run on a background goroutine and returns a stop
// function the caller invokes when done observing; it blocks until Run
// has returned.
func RunUntil(l *loop.Loop) (stop func()) {
	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	return func() {
		l.Stop()
		<-done
	}
}
