// File: internal/wakeup/wakeup.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wakeup

// Descriptor is the pair of file descriptors backing an AsyncDispatcher's
// wakeup channel. On platforms with an atomic event-counter descriptor
// (Linux eventfd), ReadFD and WriteFD are the same value and Counter is
// true: the write path must send an 8-byte counter increment. Otherwise
// ReadFD/WriteFD are the two ends of a non-blocking pipe and a single
// token byte is written per send.
type Descriptor struct {
	ReadFD  int
	WriteFD int
	Counter bool
}

// Same reports whether the read and write ends are the same descriptor.
func (d Descriptor) Same() bool {
	return d.ReadFD == d.WriteFD
}

// Close releases both ends of the descriptor, closing each fd once.
func (d Descriptor) Close() error {
	if d.Same() {
		return closeFD(d.ReadFD)
	}
	err := closeFD(d.ReadFD)
	if werr := closeFD(d.WriteFD); err == nil {
		err = werr
	}
	return err
}
