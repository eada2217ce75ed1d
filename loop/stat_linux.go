//go:build linux
// +build linux

// File: loop/stat_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import "golang.org/x/sys/unix"

func platformStat(path string) (StatSnapshot, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return StatSnapshot{}, err
	}
	return StatSnapshot{
		CtimSec:  int64(st.Ctim.Sec),
		CtimNsec: int64(st.Ctim.Nsec),
		MtimSec:  int64(st.Mtim.Sec),
		MtimNsec: int64(st.Mtim.Nsec),
		// Linux ext4/xfs expose no portable birth time through stat(2);
		// birth time is filled from ctim instead, matching the upstream
		// fallback when statx(STATX_BTIME) is unavailable.
		BirthSec:  int64(st.Ctim.Sec),
		BirthNsec: int64(st.Ctim.Nsec),
		Size:      uint64(st.Size),
		Mode:      uint32(st.Mode),
		UID:       st.Uid,
		GID:       st.Gid,
		Ino:       st.Ino,
		Dev:       uint64(st.Dev),
	}, nil
}
