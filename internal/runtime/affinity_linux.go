//go:build linux
// +build linux

// File: internal/runtime/affinity_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux affinity via sched_setaffinity(2), reached through golang.org/x/sys/unix
// rather than cgo + libnuma: the teacher's cgo path (affinity/affinity_linux.go)
// is not wired here, see DESIGN.md.

package runtime

import "golang.org/x/sys/unix"

func platformPin(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}

func platformUnpin() error {
	var set unix.CPUSet
	set.Zero()
	n := NumCPUs()
	for i := 0; i < n; i++ {
		set.Set(i)
	}
	return unix.SchedSetaffinity(0, &set)
}
