// File: fspoll/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package fspoll implements periodic stat-based change detection on a path:
// a drift-compensated timer re-samples a file's metadata on a fixed cadence
// and fires a callback when a field changes, a stat error first occurs or
// changes (a repeated identical error is reported once), or a prior error
// clears. It is grounded on libuv's uv_fs_poll_t and hosted on the
// loop package's timer and asynchronous-stat primitives.
package fspoll
