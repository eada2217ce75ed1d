// File: fspoll/fspoll_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fspoll

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/evloop/loop"
	"github.com/momentics/evloop/loop/looptest"
)

// recorder collects callback invocations under a mutex for assertion after
// the loop has been stopped.
type recorder struct {
	mu    sync.Mutex
	calls []call
}

type call struct {
	status     int32
	prev, curr loop.StatSnapshot
}

func (r *recorder) record(status int32, prev, curr loop.StatSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{status, prev, curr})
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestFirstSampleSilent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := loop.New()
	var h Handle
	Init(l, &h)
	rec := &recorder{}
	if err := Start(&h, func(h *Handle, status int32, prev, curr loop.StatSnapshot) {
		rec.record(status, prev, curr)
	}, path, 50); err != nil {
		t.Fatalf("Start: %v", err)
	}

	looptest.RunFor(l, 200*time.Millisecond)

	if n := rec.len(); n != 0 {
		t.Fatalf("expected zero callbacks before any change, got %d", n)
	}
}

func TestModificationDetected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	l := loop.New()
	var h Handle
	Init(l, &h)
	rec := &recorder{}
	if err := Start(&h, func(h *Handle, status int32, prev, curr loop.StatSnapshot) {
		rec.record(status, prev, curr)
	}, path, 20); err != nil {
		t.Fatalf("Start: %v", err)
	}

	stop := looptest.RunUntil(l)
	time.Sleep(40 * time.Millisecond)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(80 * time.Millisecond)
	stop()

	if n := rec.len(); n != 1 {
		t.Fatalf("expected exactly one change callback, got %d", n)
	}
	rec.mu.Lock()
	got := rec.calls[0]
	rec.mu.Unlock()
	if got.status != 0 {
		t.Fatalf("expected status 0, got %d", got.status)
	}
	if got.prev.Size != 0 || got.curr.Size != 1 {
		t.Fatalf("expected size 0 -> 1, got %d -> %d", got.prev.Size, got.curr.Size)
	}
}

func TestStatErrorDedup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does_not_exist")

	l := loop.New()
	var h Handle
	Init(l, &h)
	rec := &recorder{}
	if err := Start(&h, func(h *Handle, status int32, prev, curr loop.StatSnapshot) {
		rec.record(status, prev, curr)
	}, path, 10); err != nil {
		t.Fatalf("Start: %v", err)
	}

	looptest.RunFor(l, 150*time.Millisecond)

	if n := rec.len(); n != 1 {
		t.Fatalf("expected exactly one error callback, got %d", n)
	}
	rec.mu.Lock()
	status := rec.calls[0].status
	rec.mu.Unlock()
	if status == 0 {
		t.Fatalf("expected a negative error status, got 0")
	}
}

func TestStopDuringInFlightStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	l := loop.New()
	var h Handle
	Init(l, &h)
	var called int32
	if err := Start(&h, func(h *Handle, status int32, prev, curr loop.StatSnapshot) {
		atomic.AddInt32(&called, 1)
	}, path, 100); err != nil {
		t.Fatalf("Start: %v", err)
	}
	Stop(&h)

	looptest.RunFor(l, 100*time.Millisecond)

	if atomic.LoadInt32(&called) != 0 {
		t.Fatalf("expected no callback after stop before first stat resolves")
	}

	closed := make(chan struct{})
	Close(&h, func() { close(closed) })
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close callback never ran")
	}
}

func TestGetPathRequiresActive(t *testing.T) {
	l := loop.New()
	var h Handle
	Init(l, &h)
	var buf [8]byte
	if _, err := GetPath(&h, buf[:]); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGetPathBufferTooSmall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	l := loop.New()
	var h Handle
	Init(l, &h)
	if err := Start(&h, nil, path, 1000); err != nil {
		t.Fatalf("Start: %v", err)
	}
	var tiny [1]byte
	n, err := GetPath(&h, tiny[:])
	if err != ErrNoBuffer {
		t.Fatalf("expected ErrNoBuffer, got %v", err)
	}
	if n != len(path)+1 {
		t.Fatalf("expected required length %d, got %d", len(path)+1, n)
	}

	buf := make([]byte, n)
	got, err := GetPath(&h, buf)
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if got != len(path) {
		t.Fatalf("expected length %d, got %d", len(path), got)
	}
	if string(buf[:got]) != path {
		t.Fatalf("expected path %q, got %q", path, buf[:got])
	}
}
