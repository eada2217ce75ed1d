//go:build linux
// +build linux

// File: loop/io_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// epollBackend is adapted from the teacher's reactor/epoll_reactor.go: a
// sync.Map-backed callback registry over a single epoll instance.

package loop

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

type epollBackend struct {
	epfd      int
	callbacks sync.Map // map[int]func(bool)
}

func newIOBackend() (ioBackend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("loop: epoll create: %w", err)
	}
	return &epollBackend{epfd: epfd}, nil
}

func (b *epollBackend) Register(fd int, cb func(readable bool)) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("loop: epoll ctl add: %w", err)
	}
	b.callbacks.Store(fd, cb)
	return nil
}

func (b *epollBackend) Unregister(fd int) error {
	b.callbacks.Delete(fd)
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("loop: epoll ctl del: %w", err)
	}
	return nil
}

func (b *epollBackend) Poll(timeoutMs int) error {
	var events [64]unix.EpollEvent
	n, err := unix.EpollWait(b.epfd, events[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return fmt.Errorf("loop: epoll wait: %w", err)
	}
	for i := 0; i < n; i++ {
		fd := int(events[i].Fd)
		val, ok := b.callbacks.Load(fd)
		if !ok {
			continue
		}
		cb := val.(func(bool))
		readable := events[i].Events&(unix.EPOLLIN|unix.EPOLLERR|unix.EPOLLHUP) != 0
		func() {
			defer func() { _ = recover() }()
			cb(readable)
		}()
	}
	return nil
}

func (b *epollBackend) Close() error {
	return unix.Close(b.epfd)
}
