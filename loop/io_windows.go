//go:build windows
// +build windows

// File: loop/io_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows has no epoll/poll(2) equivalent for anonymous pipes. PeekNamedPipe
// reports bytes available without consuming them, so it is used here as a
// readiness check, polled once per Loop.Run tick rather than a blocking
// read — preserving the "callback only signals readiness, consumer drains
// separately" contract that the Linux/BSD backends get from the kernel.

package loop

import (
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32       = windows.NewLazySystemDLL("kernel32.dll")
	procPeekNamedPipe = modkernel32.NewProc("PeekNamedPipe")
)

func peekNamedPipe(handle windows.Handle) (avail uint32, err error) {
	var bytesAvail uint32
	ret, _, callErr := procPeekNamedPipe.Call(
		uintptr(handle), 0, 0, 0, uintptr(unsafe.Pointer(&bytesAvail)), 0,
	)
	if ret == 0 {
		return 0, callErr
	}
	return bytesAvail, nil
}

type windowsBackend struct {
	mu  sync.Mutex
	cbs map[int]func(bool)
}

func newIOBackend() (ioBackend, error) {
	return &windowsBackend{cbs: make(map[int]func(bool))}, nil
}

func (b *windowsBackend) Register(fd int, cb func(readable bool)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cbs[fd] = cb
	return nil
}

func (b *windowsBackend) Unregister(fd int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.cbs, fd)
	return nil
}

func (b *windowsBackend) Poll(timeoutMs int) error {
	b.mu.Lock()
	cbs := make(map[int]func(bool), len(b.cbs))
	for k, v := range b.cbs {
		cbs[k] = v
	}
	b.mu.Unlock()
	for fd, cb := range cbs {
		avail, err := peekNamedPipe(windows.Handle(fd))
		if err != nil || avail == 0 {
			continue
		}
		func() {
			defer func() { _ = recover() }()
			cb(true)
		}()
	}
	if timeoutMs < 0 {
		timeoutMs = 50
	}
	time.Sleep(time.Duration(timeoutMs) * time.Millisecond)
	return nil
}

func (b *windowsBackend) Close() error {
	return nil
}
