// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package favorites

import "testing"

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if c.Len() != 27 {
		t.Fatalf("Len() = %d, want 27", c.Len())
	}
	if got, _ := c.At(1); got != "花田民居" {
		t.Errorf("At(1) = %q", got)
	}
	if got, _ := c.At(3); got != "染织工坊" {
		t.Errorf("At(3) = %q", got)
	}
	if got, _ := c.At(27); got != "呜呜车站" {
		t.Errorf("At(27) = %q", got)
	}
	for _, pos := range []int{0, -1, 28} {
		if _, ok := c.At(pos); ok {
			t.Errorf("At(%d) reported ok", pos)
		}
	}
	if !c.Has("石之冠") || c.Has("不存在") {
		t.Error("Has() mismatch")
	}
}

func TestCatalog_NamesIsACopy(t *testing.T) {
	c := NewCatalog("A", "B", "C")
	names := c.Names()
	names[0] = "Z"
	if got, _ := c.At(1); got != "A" {
		t.Fatalf("catalog mutated through Names(): %q", got)
	}
}
