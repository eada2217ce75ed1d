//go:build windows
// +build windows

// File: internal/runtime/affinity_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows affinity via SetThreadAffinityMask, adapted from the teacher's
// internal/concurrency/affinity_windows.go.

package runtime

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	modkernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = modkernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread      = modkernel32.NewProc("GetCurrentThread")
)

func platformPin(cpuID int) error {
	handle, _, _ := procGetCurrentThread.Call()
	mask := uintptr(1) << uint(cpuID)
	old, _, callErr := procSetThreadAffinityMask.Call(handle, mask)
	if old == 0 {
		return fmt.Errorf("runtime: SetThreadAffinityMask failed: %w", callErr)
	}
	return nil
}

func platformUnpin() error {
	handle, _, _ := procGetCurrentThread.Call()
	total := NumCPUs()
	if total <= 0 {
		total = 1
	}
	mask := (uintptr(1) << uint(total)) - 1
	old, _, callErr := procSetThreadAffinityMask.Call(handle, mask)
	if old == 0 {
		return fmt.Errorf("runtime: SetThreadAffinityMask(unpin) failed: %w", callErr)
	}
	return nil
}
