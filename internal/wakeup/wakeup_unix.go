//go:build darwin || freebsd
// +build darwin freebsd

// File: internal/wakeup/wakeup_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BSD/Darwin wakeup descriptor: these platforms have no eventfd equivalent,
// so a non-blocking pipe pair stands in. A single token byte is written per
// send; the reader drains arbitrarily many queued tokens.

package wakeup

import "golang.org/x/sys/unix"

// New creates a non-blocking pipe pair.
func New() (Descriptor, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return Descriptor{}, err
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return Descriptor{}, err
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return Descriptor{}, err
	}
	return Descriptor{ReadFD: fds[0], WriteFD: fds[1], Counter: false}, nil
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

// WriteToken writes a single wakeup token byte to the pipe's write end.
func WriteToken(fd int, counter bool) (int, error) {
	payload := [1]byte{1}
	for {
		n, err := writeFD(fd, payload[:])
		if err != nil && IsEINTR(err) {
			continue
		}
		return n, err
	}
}
