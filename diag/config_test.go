// File: diag/config_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package diag

import "testing"

func TestConfigGetSet(t *testing.T) {
	c := NewConfig(DefaultSettings())
	if got := c.Get().StatWorkers; got != 4 {
		t.Fatalf("expected default StatWorkers 4, got %d", got)
	}
	c.Set(Settings{StatWorkers: 8, FsPollMinIntervalMs: 5, CPUAffinity: 2})
	if got := c.Get().StatWorkers; got != 8 {
		t.Fatalf("expected updated StatWorkers 8, got %d", got)
	}
}

func TestConfigOnChangeNotified(t *testing.T) {
	c := NewConfig(DefaultSettings())
	seen := make(chan Settings, 1)
	c.OnChange(func(s Settings) { seen <- s })

	c.Set(Settings{StatWorkers: 16, FsPollMinIntervalMs: 1, CPUAffinity: -1})

	select {
	case s := <-seen:
		if s.StatWorkers != 16 {
			t.Fatalf("expected listener to observe StatWorkers 16, got %d", s.StatWorkers)
		}
	default:
		t.Fatal("listener was not notified")
	}
}
