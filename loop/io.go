// File: loop/io.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// IOWatcher registers a descriptor for read-readiness with the loop's
// platform backend (epoll on Linux, poll(2) on BSD/Darwin, PeekNamedPipe
// polling on Windows).
// async is the only consumer today, watching its wakeup descriptor.

package loop

import "log"

// ioBackend is the platform readiness poller contract. Implementations
// live in io_linux.go (epoll), io_poll.go (poll(2)) and io_windows.go
// (PeekNamedPipe), with io_failed.go standing in when construction fails.
type ioBackend interface {
	Register(fd int, cb func(readable bool)) error
	Unregister(fd int) error
	Poll(timeoutMs int) error
	Close() error
}

// IOWatcher is a loop handle for read-readiness on a single descriptor.
type IOWatcher struct {
	Handle
	fd int
	cb func(readable bool)
}

// IOInit binds w to fd; cb runs on the loop thread whenever fd is readable.
func (l *Loop) IOInit(w *IOWatcher, fd int, cb func(readable bool)) {
	w.Init(l, KindIO)
	w.fd = fd
	w.cb = cb
}

// IOStart registers w with the platform poller for read-readiness.
func (l *Loop) IOStart(w *IOWatcher) error {
	l.mu.Lock()
	backend := l.io
	l.mu.Unlock()
	if err := backend.Register(w.fd, w.cb); err != nil {
		return err
	}
	w.MarkActive()
	return nil
}

// IOStop unregisters w. No-op if inactive.
func (l *Loop) IOStop(w *IOWatcher) error {
	if !w.IsActive() {
		return nil
	}
	l.mu.Lock()
	backend := l.io
	l.mu.Unlock()
	w.MarkInactive()
	return backend.Unregister(w.fd)
}

// CloseIO stops w and arranges closeCB to run on the loop thread.
func (l *Loop) CloseIO(w *IOWatcher, closeCB func()) {
	_ = l.IOStop(w)
	w.MakeClosePending(closeCB)
}

func (l *Loop) pollIO(timeoutMs int) {
	l.mu.Lock()
	backend := l.io
	l.mu.Unlock()
	if err := backend.Poll(timeoutMs); err != nil {
		log.Printf("evloop: io poll error: %v", err)
	}
}
