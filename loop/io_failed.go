// File: loop/io_failed.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// failedIOBackend stands in when platform backend construction fails (e.g.
// epoll_create1 exhausting a descriptor limit). A Loop that never registers
// an I/O watcher (fspoll-only use) never notices; one that does gets the
// original construction error back from Register.

package loop

type failedIOBackend struct{ err error }

func (f failedIOBackend) Register(fd int, cb func(readable bool)) error { return f.err }
func (f failedIOBackend) Unregister(fd int) error                       { return nil }
func (f failedIOBackend) Poll(timeoutMs int) error                      { return nil }
func (f failedIOBackend) Close() error                                  { return nil }
