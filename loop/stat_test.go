// File: loop/stat_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFsStatExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := New()
	var req StatRequest
	result := make(chan struct {
		snap StatSnapshot
		err  error
	}, 1)
	if err := l.FsStat(&req, path, func(req *StatRequest, snap StatSnapshot, err error) {
		result <- struct {
			snap StatSnapshot
			err  error
		}{snap, err}
	}); err != nil {
		t.Fatalf("FsStat: %v", err)
	}

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	defer func() {
		l.Stop()
		<-done
	}()

	select {
	case r := <-result:
		if r.err != nil {
			t.Fatalf("unexpected stat error: %v", r.err)
		}
		if r.snap.Size != 5 {
			t.Fatalf("expected size 5, got %d", r.snap.Size)
		}
	case <-time.After(time.Second):
		t.Fatal("stat callback never ran")
	}
}

func TestFsStatMissingFile(t *testing.T) {
	l := New()
	var req StatRequest
	result := make(chan error, 1)
	if err := l.FsStat(&req, filepath.Join(t.TempDir(), "absent"), func(req *StatRequest, snap StatSnapshot, err error) {
		result <- err
	}); err != nil {
		t.Fatalf("FsStat: %v", err)
	}

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	defer func() {
		l.Stop()
		<-done
	}()

	select {
	case err := <-result:
		if err == nil {
			t.Fatal("expected a stat error for a missing path")
		}
	case <-time.After(time.Second):
		t.Fatal("stat callback never ran")
	}
}
