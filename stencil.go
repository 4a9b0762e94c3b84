// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

// Stencil buffer layout.
//
// The low five bits hold the layering reference assigned by the allocator.
// The top three bits record which tile data level covers a pixel, one bit per
// level slot; only multi-level groups test against them. In the pre-pass the
// top bit instead flags pixels excluded from planar reflection.
const (
	// MaxStencilRef is the largest reference the allocator hands out.
	MaxStencilRef = 31

	// StencilNoLevelMask selects the allocator bits.
	StencilNoLevelMask uint8 = 31

	// StencilLevelMaskAll selects the three level bits.
	StencilLevelMaskAll uint8 = 1<<7 | 1<<6 | 1<<5

	// StencilNoSSPR flags pixels excluded from planar reflection (pre-pass only).
	StencilNoSSPR uint8 = 1 << 7

	stencilPrePassReadMask  uint8 = 127
	stencilPrePassWriteMask uint8 = 255
	stencilFullMask         uint8 = 255
)

// StencilLevelBits maps level slots (LevelUpper, LevelCurrent, LevelLower)
// to their stencil bit.
var StencilLevelBits = [3]uint8{1 << 7, 1 << 6, 1 << 5}

// stencilAllocator hands out increasing stencil references while the
// scanner closes groups. References saturate at MaxStencilRef.
type stencilAllocator struct {
	ref int
}

func newStencilAllocator() stencilAllocator {
	return stencilAllocator{ref: 1}
}

// current returns the reference for the group being emitted.
func (a *stencilAllocator) current() uint32 {
	return uint32(min(a.ref, MaxStencilRef))
}

// saturated reports whether the raw counter has run past MaxStencilRef and
// now aliases earlier groups.
func (a *stencilAllocator) saturated() bool {
	return a.ref > MaxStencilRef
}

// advance increments the reference when the transition from closing to next
// cannot be resolved by depth testing alone. It reports whether it did.
func (a *stencilAllocator) advance(closing, next LayeringInfo) bool {
	if !needsStencilIncrement(closing, next) {
		return false
	}
	a.ref++
	return true
}

// needsStencilIncrement reports whether next must be separated from the
// just-closed group by a new stencil reference.
func needsStencilIncrement(closing, next LayeringInfo) bool {
	closingOpaque := IsOpaque(closing)
	switch {
	case closingOpaque && !IsOpaque(next):
		return true
	case closingOpaque && Is3D(closing) && !Is3D(next):
		return true
	case Is3D(next) && next.Output == OverlayOpaque && Is3D(closing):
		return true
	case closing.Output == StencilOnlyMask || next.Output == DepthOnlyMask:
		return true
	}
	return false
}
