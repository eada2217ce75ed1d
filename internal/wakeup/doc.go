// File: internal/wakeup/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package wakeup creates the platform wakeup descriptor the async dispatcher
// writes to from any thread and the loop's I/O watcher reads from. On Linux
// this is a single non-blocking eventfd; elsewhere it is a non-blocking pipe.
package wakeup
