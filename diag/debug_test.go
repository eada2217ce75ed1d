// File: diag/debug_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package diag

import (
	"strings"
	"testing"
)

func TestControlSnapshotReflectsActivity(t *testing.T) {
	c, _ := NewControl(DefaultSettings())
	c.RecordFsPollStart()
	c.RecordFsPollStart()
	c.RecordFsPollStop()
	c.RecordAsyncInit()

	snap := c.Snapshot()
	if !strings.Contains(snap, "active_fspollers=1") {
		t.Fatalf("expected active_fspollers=1 in snapshot, got %q", snap)
	}
	if !strings.Contains(snap, "active_async_hooks=1") {
		t.Fatalf("expected active_async_hooks=1 in snapshot, got %q", snap)
	}
}
