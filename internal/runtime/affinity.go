// File: internal/runtime/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform CPU affinity for the loop's driving goroutine.

package runtime

import stdruntime "runtime"

// Pin locks the calling goroutine to its OS thread and attempts to bind
// that thread to the given logical CPU. cpuID < 0 means "no preference";
// Pin still locks the OS thread so repeated timer/epoll syscalls land on
// a stable thread, but does not set an affinity mask.
func Pin(cpuID int) error {
	stdruntime.LockOSThread()
	if cpuID < 0 {
		return nil
	}
	return platformPin(cpuID)
}

// Unpin clears any affinity mask set by Pin and releases the OS thread lock.
func Unpin() error {
	defer stdruntime.UnlockOSThread()
	return platformUnpin()
}

// NumCPUs returns the number of logical CPUs visible to the process.
func NumCPUs() int {
	return stdruntime.NumCPU()
}
