// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

import (
	"math"
	"sync"
)

// Level slots of a LevelInfo.
const (
	LevelUpper = iota
	LevelCurrent
	LevelLower
)

// LevelAbsent marks a LevelInfo slot with no active level.
const LevelAbsent int32 = -1

// Bounds of the level table. Finer than LevelFinest has no upper level,
// coarser than LevelCoarsest has no lower level.
const (
	LevelFinest   = 13
	LevelCoarsest = 3
)

// scaleBreakpoints bracket zoom scales: a scale in
// (scaleBreakpoints[i], scaleBreakpoints[i+1]] shows levelTable[i].
var scaleBreakpoints = [9]float64{
	0, 2_000, 5_000, 10_000, 25_000, 50_000, 100_000, 250_000, math.Inf(1),
}

// levelTable lists the tile data levels from finest to coarsest.
var levelTable = [8]int{13, 12, 11, 10, 9, 7, 5, 3}

// LevelInfo holds the tile data levels shown at once by one view.
//
// Each slot is a rendering layer bit (1<<level) or LevelAbsent. All is the
// OR of the present slots. A descriptor whose mask intersects All is drawn
// once per level with the level bit as its mask.
type LevelInfo struct {
	Levels [3]int32
	All    uint32
}

// Active reports whether mask selects any level shown by the view.
func (li LevelInfo) Active(mask uint32) bool {
	return mask&li.All != 0
}

func emptyLevelInfo() LevelInfo {
	return LevelInfo{Levels: [3]int32{LevelAbsent, LevelAbsent, LevelAbsent}}
}

// LevelRegistry maps view identifiers to their LevelInfo.
//
// LevelRegistry is safe for concurrent use. The zero value is ready to use.
type LevelRegistry struct {
	mu    sync.RWMutex
	views map[int]*LevelInfo
}

// NewLevelRegistry creates an empty registry.
func NewLevelRegistry() *LevelRegistry {
	return &LevelRegistry{views: make(map[int]*LevelInfo)}
}

// Levels returns a copy of the LevelInfo of viewID, creating an empty
// entry on first access.
func (r *LevelRegistry) Levels(viewID int) LevelInfo {
	r.mu.RLock()
	if li, ok := r.views[viewID]; ok {
		out := *li
		r.mu.RUnlock()
		return out
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.entryLocked(viewID)
}

// SetScale selects the levels shown by viewID at the given zoom scale and
// returns the updated LevelInfo. A NaN scale leaves the entry unchanged.
func (r *LevelRegistry) SetScale(scale float64, viewID int) LevelInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	li := r.entryLocked(viewID)
	if math.IsNaN(scale) {
		return *li
	}

	i := levelIndexForScale(scale)
	current := levelTable[i]

	li.Levels[LevelCurrent] = levelBit(current)
	li.Levels[LevelUpper] = LevelAbsent
	if current < LevelFinest && i > 0 {
		li.Levels[LevelUpper] = levelBit(levelTable[i-1])
	}
	li.Levels[LevelLower] = LevelAbsent
	if current > LevelCoarsest && i < len(levelTable)-1 {
		li.Levels[LevelLower] = levelBit(levelTable[i+1])
	}

	li.All = 0
	for _, l := range li.Levels {
		if l >= 0 {
			li.All |= uint32(l)
		}
	}

	Logger().Debug("layering: levels changed",
		"view", viewID, "scale", scale, "current", current, "all", li.All)
	return *li
}

// Reset forgets every view.
func (r *LevelRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.views)
}

func (r *LevelRegistry) entryLocked(viewID int) *LevelInfo {
	if r.views == nil {
		r.views = make(map[int]*LevelInfo)
	}
	li, ok := r.views[viewID]
	if !ok {
		e := emptyLevelInfo()
		li = &e
		r.views[viewID] = li
	}
	return li
}

// levelIndexForScale scans the breakpoints linearly; scales at or below
// the first breakpoint clamp to the finest level.
func levelIndexForScale(scale float64) int {
	for i := 0; i < len(levelTable); i++ {
		if scale > scaleBreakpoints[i] && scale <= scaleBreakpoints[i+1] {
			return i
		}
	}
	return 0
}

func levelBit(level int) int32 {
	return int32(1) << level
}
