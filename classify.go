// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

// IsOpaque reports whether info is drawn in the opaque part of the frame.
// Masks count as opaque.
func IsOpaque(info LayeringInfo) bool {
	switch info.Output {
	case CommonOpaque, OverlayOpaque, DepthOnlyMask, StencilOnlyMask:
		return true
	}
	return false
}

// Is3D reports whether info has geometry off the ground plane.
func Is3D(info LayeringInfo) bool {
	return info.GeoType != Grounded
}

// NeedsDepthWrite reports whether output writes the depth buffer.
func NeedsDepthWrite(output OutputType) bool {
	return output == CommonOpaque || output == OverlayOpaque || output == DepthOnlyMask
}

// NeedsDepthTest reports whether output is depth tested for the given geometry.
//
// Overlay opaque content is depth tested only when it stands above the
// ground (a car drawn in the layering forward pass); depth masks likewise
// (a water bottom).
func NeedsDepthTest(output OutputType, geo GeometryType) bool {
	switch output {
	case CommonOpaque, CommonTransparent, CommonDefault:
		return true
	case OverlayOpaque:
		return geo == AboveGround || geo == Arbitrary
	case DepthOnlyMask:
		return geo != Grounded
	}
	return false
}

// NeedsStencilTest reports whether a group must be stencil tested.
//
// Every depth tested group is also stencil tested. Non-opaque groups below
// an opaque group test against its reference to stay covered.
func NeedsStencilTest(needDepthTest, isOpaque bool, output OutputType, geo GeometryType, hasOpaqueAbove bool) bool {
	return needDepthTest ||
		output == StencilOnlyMask ||
		(output == DepthOnlyMask && geo == Grounded) ||
		(hasOpaqueAbove && !isOpaque)
}

// NeedsStencilWrite reports whether a group writes its stencil reference.
func NeedsStencilWrite(isOpaque bool, output OutputType) bool {
	return isOpaque && output != DepthOnlyMask
}

// blockParams holds the state derived from one descriptor.
type blockParams struct {
	output           OutputType
	isOpaque         bool
	is3D             bool
	needDepthTest    bool
	needDepthWrite   bool
	needStencilTest  bool
	needStencilWrite bool
	noSSPR           bool

	// mask is the descriptor mask with LayerNoSSPR removed.
	mask uint32
}

func deriveParams(info LayeringInfo) blockParams {
	p := blockParams{
		output:         info.Output,
		isOpaque:       IsOpaque(info),
		is3D:           Is3D(info),
		needDepthTest:  NeedsDepthTest(info.Output, info.GeoType),
		needDepthWrite: NeedsDepthWrite(info.Output),
	}
	p.needStencilTest = NeedsStencilTest(p.needDepthTest, p.isOpaque, info.Output, info.GeoType,
		info.OpaqueIndexAbove >= 0)
	p.needStencilWrite = NeedsStencilWrite(p.isOpaque, info.Output)

	// The no-SSPR bit is a pre-pass stencil flag, never a block mask bit.
	p.noSSPR = info.RenderingLayerMask&LayerNoSSPR != 0
	p.mask = info.RenderingLayerMask &^ LayerNoSSPR
	return p
}
