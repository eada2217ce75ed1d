// File: loop/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package loop hosts the minimal event-loop collaborators that fspoll and
// async are layered on: a monotonic clock, a timer wheel, an asynchronous
// stat dispatcher backed by a small worker pool, and a readiness-based I/O
// watcher (epoll on Linux, poll(2) on BSD/Darwin, PeekNamedPipe polling on
// Windows).
//
// This is deliberately not a general-purpose reactor: it is sized to what
// fspoll and async exercise, matching spec.md's framing of the loop, its
// timer wheel, its stat operation and its I/O poller as external
// collaborators that this core only needs the shape of.
package loop
