//go:build linux
// +build linux

// File: internal/wakeup/wakeup_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux wakeup descriptor backed by eventfd(2): a single non-blocking,
// close-on-exec descriptor that is both readable and writable, with the
// kernel coalescing writes into an 8-byte counter.

package wakeup

import "golang.org/x/sys/unix"

// New creates a non-blocking eventfd descriptor.
func New() (Descriptor, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{ReadFD: fd, WriteFD: fd, Counter: true}, nil
}

func closeFD(fd int) error {
	return unix.Close(fd)
}

func readFD(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

func writeFD(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}

// IsEAGAIN reports whether err is a non-fatal retry-later result.
func IsEAGAIN(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}

// IsEINTR reports whether err is an interrupted-syscall result.
func IsEINTR(err error) bool {
	return err == unix.EINTR
}

// Read drains up to len(buf) bytes, retrying on interrupt.
func Read(fd int, buf []byte) (int, error) {
	for {
		n, err := readFD(fd, buf)
		if err != nil && IsEINTR(err) {
			continue
		}
		return n, err
	}
}

// WriteToken writes the wakeup payload appropriate to the descriptor kind.
// For eventfd this is an 8-byte little-endian counter increment of 1.
func WriteToken(fd int, counter bool) (int, error) {
	var payload [8]byte
	payload[0] = 1
	for {
		n, err := writeFD(fd, payload[:])
		if err != nil && IsEINTR(err) {
			continue
		}
		return n, err
	}
}
