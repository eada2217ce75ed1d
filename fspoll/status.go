// File: fspoll/status.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stat results are delivered to callbacks as a status code rather than a Go
// error (spec.md §7: "these are not returned as API failures; they are
// normal callback deliveries"), mirroring libuv's negative-errno convention
// so busy_polling dedup can compare codes by value.

package fspoll

import (
	"errors"
	"syscall"
)

// codeFromErr maps a stat error to a negative errno-style status code, or 0
// for success. Errors that do not carry a syscall.Errno (none are expected
// from the platform stat implementations in loop/stat_*.go) collapse to a
// generic -1.
func codeFromErr(err error) int32 {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return -int32(errno)
	}
	return -1
}
