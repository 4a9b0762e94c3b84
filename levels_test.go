// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

import (
	"math"
	"sync"
	"testing"
)

func TestLevelRegistryDefault(t *testing.T) {
	r := NewLevelRegistry()
	li := r.Levels(3)
	for i, l := range li.Levels {
		if l != LevelAbsent {
			t.Errorf("Levels[%d] = %d, want %d", i, l, LevelAbsent)
		}
	}
	if li.All != 0 {
		t.Errorf("All = %#x, want 0", li.All)
	}

	var zero LevelRegistry
	if got := zero.Levels(0); got.All != 0 {
		t.Errorf("zero registry All = %#x, want 0", got.All)
	}
}

func TestSetScale(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		want  [3]int32
	}{
		{"negative clamps to finest", -5, [3]int32{LevelAbsent, 1 << 13, 1 << 12}},
		{"zero clamps to finest", 0, [3]int32{LevelAbsent, 1 << 13, 1 << 12}},
		{"finest", 1500, [3]int32{LevelAbsent, 1 << 13, 1 << 12}},
		{"upper breakpoint inclusive", 2000, [3]int32{LevelAbsent, 1 << 13, 1 << 12}},
		{"just above breakpoint", 2000.5, [3]int32{1 << 13, 1 << 12, 1 << 11}},
		{"middle", 30_000, [3]int32{1 << 10, 1 << 9, 1 << 7}},
		{"coarse", 200_000, [3]int32{1 << 7, 1 << 5, 1 << 3}},
		{"coarsest", 1e9, [3]int32{1 << 5, 1 << 3, LevelAbsent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLevelRegistry()
			got := r.SetScale(tt.scale, 1)
			if got.Levels != tt.want {
				t.Errorf("SetScale(%v).Levels = %v, want %v", tt.scale, got.Levels, tt.want)
			}
			var all uint32
			for _, l := range tt.want {
				if l >= 0 {
					all |= uint32(l)
				}
			}
			if got.All != all {
				t.Errorf("SetScale(%v).All = %#x, want %#x", tt.scale, got.All, all)
			}
			if r.Levels(1) != got {
				t.Error("Levels() does not reflect SetScale")
			}
		})
	}
}

func TestSetScaleReplacesPreviousLevels(t *testing.T) {
	r := NewLevelRegistry()
	r.SetScale(1e9, 0)
	got := r.SetScale(3000, 0)
	if got.Levels != [3]int32{1 << 13, 1 << 12, 1 << 11} {
		t.Errorf("Levels = %v after rescale", got.Levels)
	}
	if got.All != 1<<13|1<<12|1<<11 {
		t.Errorf("All = %#x after rescale", got.All)
	}
}

func TestSetScaleNaN(t *testing.T) {
	r := NewLevelRegistry()
	before := r.SetScale(3000, 0)
	if got := r.SetScale(math.NaN(), 0); got != before {
		t.Errorf("SetScale(NaN) = %v, want unchanged %v", got, before)
	}
}

func TestLevelRegistryViewsIndependent(t *testing.T) {
	r := NewLevelRegistry()
	r.SetScale(1000, 0)
	r.SetScale(1e9, 1)
	if r.Levels(0) == r.Levels(1) {
		t.Error("views share level info")
	}
	r.Reset()
	if r.Levels(0).All != 0 {
		t.Error("Reset() kept view 0")
	}
}

func TestLevelRegistryConcurrent(t *testing.T) {
	r := NewLevelRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.SetScale(float64(i)*10_000, i%2)
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = r.Levels(i % 2)
		}(i)
	}
	wg.Wait()
}

func TestLevelInfoActive(t *testing.T) {
	li := LevelInfo{Levels: [3]int32{1 << 13, 1 << 12, 1 << 11}, All: 1<<13 | 1<<12 | 1<<11}
	if !li.Active(1<<12 | 1) {
		t.Error("Active() = false for a mask containing a level bit")
	}
	if li.Active(1) {
		t.Error("Active() = true for a mask without level bits")
	}
}
