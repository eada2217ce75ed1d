// File: async/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package async implements cross-thread wakeup notification: any goroutine
// may call Send on a Handle to have its callback invoked on the loop
// thread, with any number of concurrent sends before the loop next drains
// collapsing into a single callback invocation. Grounded on libuv's
// uv_async_t and its tri-state pending handshake (src/unix/async.c).
package async
