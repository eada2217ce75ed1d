// File: internal/runtime/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package runtime provides the loop's ambient OS-thread concerns: pinning
// the goroutine that drives Loop.Run to a single CPU core (so timer ticks
// and epoll waits see consistent scheduling latency), and a small worker
// pool that backs the loop's asynchronous stat dispatch.
package runtime
