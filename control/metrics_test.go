// Copyright 2025 momentics@gmail.com
// License: Apache-2.0

package control

import (
	"sync"
	"testing"
)

func TestRegistryAddAndGet(t *testing.T) {
	mr := NewMetricsRegistry()
	if mr.Get("missing") != 0 {
		t.Error("unregistered counter must read zero")
	}
	mr.Add("a", 3)
	mr.Add("a", 4)
	if got := mr.Get("a"); got != 7 {
		t.Errorf("Get(a) = %d, want 7", got)
	}
	if mr.Updated().IsZero() {
		t.Error("Updated not stamped")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.Add("x", 1)
	snap := mr.Snapshot()
	snap["x"] = 99
	if mr.Get("x") != 1 {
		t.Error("snapshot mutation leaked into registry")
	}
}

func TestConcurrentAdds(t *testing.T) {
	mr := NewMetricsRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				mr.Add("c", 1)
			}
		}()
	}
	wg.Wait()
	if got := mr.Get("c"); got != 8000 {
		t.Errorf("Get(c) = %d, want 8000", got)
	}
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("state", func() any { return 42 })
	dump := dp.DumpState()
	if dump["state"] != 42 {
		t.Errorf("DumpState = %v", dump)
	}
	dp.UnregisterProbe("state")
	if len(dp.DumpState()) != 0 {
		t.Error("probe not removed")
	}
}
