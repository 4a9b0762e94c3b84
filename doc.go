// Package layering compiles map layering descriptors into renderer blocks.
//
// # Overview
//
// A tile-based map draws many categories of content into one frame: opaque
// ground, buildings, transparent decorations, masks, multi-level road data.
// Depth testing alone cannot order all of them (2D overlays drawn over 3D
// content, masks, several data levels at once), so layering assigns each
// group a stencil reference and a full blend/depth/stencil state.
//
// The input is an ordered list of [LayeringInfo] descriptors, one per
// drawable group. [Compiler.Compile] turns it into three sequences of
// [RendererBlock]s:
//
//   - Forward: opaque groups of the forward color pass
//   - PrePass: all groups of the depth/normal pre-pass
//   - ForwardTransparent: transparent groups of the forward pass
//
// Each block covers a contiguous render-queue range and a rendering layer
// mask and carries the [PipelineState] to draw it with.
//
// # Quick Start
//
//	registry := layering.NewLevelRegistry()
//	registry.SetScale(4000, viewID)
//
//	c := layering.NewCompiler(registry)
//	c.Compile(infos, viewID)
//
//	for block := range c.ForwardDraws() {
//	    // filter renderers by block.MinQueue..block.MaxQueue and
//	    // block.RenderingLayerMask, draw them with block.State
//	}
//
// # Draw Order
//
// Pass sequences are built while scanning descriptors from the tail. Submit
// them with [Sequence.DrawOrder] (last appended first); the overflow list is
// submitted in append order. [Compiler.ForwardDraws] and
// [Compiler.PrePassDraws] do this for you.
//
// # Stencil Layout
//
// The low five stencil bits hold the layering reference, which saturates at
// [MaxStencilRef]. The top three bits mark which of the three visible tile
// data levels covers a pixel. In the pre-pass bit 7 flags pixels excluded
// from planar reflection.
//
// # Concurrency
//
// A [Compiler] is single-threaded and reuses its buffers: use one per view.
// [LevelRegistry] is safe for concurrent use.
//
// # Sub-packages
//
//   - config: YAML layering configuration files
//   - pipeline: wgpu/hal pipelines and pass recording for renderer blocks
package layering
