//go:build windows
// +build windows

// File: internal/wakeup/wakeup_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows wakeup descriptor backed by an anonymous pipe. Windows has no
// eventfd/epoll-class readiness primitive usable uniformly here, so the
// loop's Windows I/O backend (loop/io_windows.go) checks this descriptor
// with PeekNamedPipe once per Run iteration instead.

package wakeup

import (
	"golang.org/x/sys/windows"
)

// New creates an anonymous pipe pair and returns its ends as raw handles
// cast to int, matching the Descriptor contract used on Unix platforms.
func New() (Descriptor, error) {
	var r, w windows.Handle
	if err := windows.CreatePipe(&r, &w, nil, 0); err != nil {
		return Descriptor{}, err
	}
	return Descriptor{ReadFD: int(r), WriteFD: int(w), Counter: false}, nil
}

func closeFD(fd int) error {
	return windows.CloseHandle(windows.Handle(fd))
}

// IsEAGAIN is always false: anonymous pipes on Windows block rather than
// returning a would-block result, so callers never need to retry.
func IsEAGAIN(err error) bool {
	return false
}

// IsEINTR is always false on Windows.
func IsEINTR(err error) bool {
	return false
}

// Read blocks until at least one byte is available or the pipe is closed.
func Read(fd int, buf []byte) (int, error) {
	var n uint32
	err := windows.ReadFile(windows.Handle(fd), buf, &n, nil)
	return int(n), err
}

// WriteToken writes a single wakeup token byte to the pipe's write end.
func WriteToken(fd int, counter bool) (int, error) {
	payload := [1]byte{1}
	var n uint32
	err := windows.WriteFile(windows.Handle(fd), payload[:], &n, nil)
	return int(n), err
}
