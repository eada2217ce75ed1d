//go:build darwin || freebsd
// +build darwin freebsd

// File: loop/io_poll.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BSD/Darwin readiness backend using poll(2) (via golang.org/x/sys/unix),
// since these platforms have no epoll. Unlike a blocking-reader goroutine,
// poll(2) only reports readiness without consuming bytes, so the registered
// callback and the consumer's own read(2) of the same descriptor never
// race over who gets the data.

package loop

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

type pollBackend struct {
	mu    sync.Mutex
	fds   []int
	cbs   map[int]func(bool)
}

func newIOBackend() (ioBackend, error) {
	return &pollBackend{cbs: make(map[int]func(bool))}, nil
}

func (b *pollBackend) Register(fd int, cb func(readable bool)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fds = append(b.fds, fd)
	b.cbs[fd] = cb
	return nil
}

func (b *pollBackend) Unregister(fd int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.cbs, fd)
	for i, f := range b.fds {
		if f == fd {
			b.fds = append(b.fds[:i], b.fds[i+1:]...)
			break
		}
	}
	return nil
}

func (b *pollBackend) Poll(timeoutMs int) error {
	b.mu.Lock()
	fds := make([]unix.PollFd, len(b.fds))
	for i, fd := range b.fds {
		fds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}
	b.mu.Unlock()
	if len(fds) == 0 {
		if timeoutMs < 0 {
			timeoutMs = 50
		}
		return nil
	}
	n, err := unix.Poll(fds, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return fmt.Errorf("loop: poll: %w", err)
	}
	if n == 0 {
		return nil
	}
	b.mu.Lock()
	cbs := make(map[int]func(bool), len(b.cbs))
	for k, v := range b.cbs {
		cbs[k] = v
	}
	b.mu.Unlock()
	for _, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}
		cb, ok := cbs[int(pfd.Fd)]
		if !ok {
			continue
		}
		readable := pfd.Revents&(unix.POLLIN|unix.POLLERR|unix.POLLHUP) != 0
		func() {
			defer func() { _ = recover() }()
			cb(readable)
		}()
	}
	return nil
}

func (b *pollBackend) Close() error {
	return nil
}
