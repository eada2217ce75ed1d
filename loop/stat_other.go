//go:build !linux
// +build !linux

// File: loop/stat_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback stat extraction using only os.FileInfo: darwin/windows
// each expose richer metadata through platform-specific syscalls, but the
// os.FileInfo fields below are enough to satisfy fspoll's change-detection
// contract (size + mtime cover the overwhelming majority of real changes).

package loop

import "os"

func platformStat(path string) (StatSnapshot, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return StatSnapshot{}, err
	}
	mt := fi.ModTime()
	return StatSnapshot{
		MtimSec:  mt.Unix(),
		MtimNsec: int64(mt.Nanosecond()),
		Size:     uint64(fi.Size()),
		Mode:     uint32(fi.Mode()),
	}, nil
}
