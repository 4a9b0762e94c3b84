// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

import (
	"log/slog"

	"github.com/gogpu/gputypes"
)

// RendererBlock is one draw-state batch: every renderer whose queue falls in
// [MinQueue, MaxQueue] and whose rendering layers intersect
// RenderingLayerMask is drawn with State.
type RendererBlock struct {
	MinQueue           int
	MaxQueue           int
	State              PipelineState
	RenderingLayerMask uint32
}

// LogValue implements slog.LogValuer.
func (b RendererBlock) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("min_queue", b.MinQueue),
		slog.Int("max_queue", b.MaxQueue),
		slog.Any("layers", b.RenderingLayerMask),
		slog.Any("state", b.State),
	)
}

// blockBuilder turns closed groups into renderer blocks for one pass.
type blockBuilder struct {
	exclude   PassType
	levels    LevelInfo
	primary   *Sequence
	overflow  *Sequence
	logBlocks bool
}

// add emits the block(s) of info covering [minQ, maxQ] with allocator
// reference ref.
func (b *blockBuilder) add(info LayeringInfo, minQ, maxQ int, ref uint32) {
	p := deriveParams(info)
	if p.mask&LayerDoubleDrawTransparent != 0 {
		b.addDoubleDraw(p, minQ, maxQ, ref)
		return
	}

	levelCount := 1
	if b.levels.Active(p.mask) {
		levelCount = 3
	}
	for slot := 0; slot < levelCount; slot++ {
		mask := int64(p.mask)
		if levelCount == 3 {
			mask = int64(b.levels.Levels[slot])
		}
		if mask < 0 {
			// Level not shown by this view.
			continue
		}
		state := b.state(p, slot, levelCount == 3, ref)
		b.route(p, RendererBlock{
			MinQueue:           minQ,
			MaxQueue:           maxQ,
			State:              state,
			RenderingLayerMask: uint32(mask),
		})
	}
}

// state builds the pipeline state of one level slot of a group.
func (b *blockBuilder) state(p blockParams, slot int, multiLevel bool, ref uint32) PipelineState {
	s := PipelineState{Mask: StateDepth | StateStencil}
	if p.output != CommonDefault && p.output != OverlayDefault {
		s.Mask |= StateBlend
	}

	switch {
	case !p.isOpaque:
		s.Blend = BlendTransparent
	case p.output == StencilOnlyMask || p.output == DepthOnlyMask:
		s.Blend = BlendOpaqueNoColor
	default:
		s.Blend = BlendOpaque
	}

	s.Depth = DepthState{WriteEnabled: p.needDepthWrite, Compare: gputypes.CompareFunctionAlways}
	if p.needDepthTest {
		s.Depth.Compare = gputypes.CompareFunctionLessEqual
	}

	st := StencilState{Enabled: true, ReadMask: StencilNoLevelMask, WriteMask: StencilNoLevelMask}
	compare := gputypes.CompareFunctionGreater
	if p.is3D {
		compare = gputypes.CompareFunctionGreaterEqual
	}
	if !p.needStencilTest {
		compare = gputypes.CompareFunctionAlways
	}
	st.setCompare(compare)
	if p.needStencilWrite {
		st.setPass(gputypes.StencilOperationReplace)
	} else {
		st.setPass(gputypes.StencilOperationKeep)
	}
	st.setFail(gputypes.StencilOperationKeep)
	value := ref

	if multiLevel {
		st.setCompare(gputypes.CompareFunctionGreater)
		st.setPass(gputypes.StencilOperationReplace)
		if p.output == StencilOnlyMask {
			st.ReadMask, st.WriteMask = StencilLevelMaskAll, StencilLevelMaskAll
			value = uint32(StencilLevelBits[slot])
		} else {
			st.ReadMask, st.WriteMask = stencilFullMask, stencilFullMask
			value = uint32(StencilLevelBits[slot]) | ref
		}
	}

	if b.exclude == PassForward {
		st.ReadMask, st.WriteMask = stencilPrePassReadMask, stencilPrePassWriteMask
		if p.noSSPR {
			value |= uint32(StencilNoSSPR)
		}
	}

	s.Stencil = st
	s.StencilReference = value
	return s
}

// addDoubleDraw emits the transparent road category. The forward variant
// draws it twice from the overflow list, first without and then with depth
// write; the pre-pass variant writes it as opaque.
func (b *blockBuilder) addDoubleDraw(p blockParams, minQ, maxQ int, ref uint32) {
	if b.exclude == PassPrePass {
		for _, write := range []bool{false, true} {
			b.emit(b.overflow, RendererBlock{
				MinQueue: minQ,
				MaxQueue: maxQ,
				State: PipelineState{
					Mask:  StateBlend | StateDepth,
					Blend: BlendTransparent,
					Depth: DepthState{WriteEnabled: write, Compare: gputypes.CompareFunctionLessEqual},
				},
				RenderingLayerMask: p.mask,
			})
		}
		return
	}

	st := StencilState{Enabled: true, ReadMask: stencilPrePassReadMask, WriteMask: stencilPrePassWriteMask}
	st.setCompare(gputypes.CompareFunctionGreaterEqual)
	st.setPass(gputypes.StencilOperationReplace)
	st.setFail(gputypes.StencilOperationKeep)
	value := ref
	if p.noSSPR {
		value |= uint32(StencilNoSSPR)
	}
	b.emit(b.primary, RendererBlock{
		MinQueue: minQ,
		MaxQueue: maxQ,
		State: PipelineState{
			Mask:             StateAll,
			Blend:            BlendOpaque,
			Depth:            DepthOpaque,
			Stencil:          st,
			StencilReference: value,
		},
		RenderingLayerMask: p.mask,
	})
}

// route appends block to the pass sequence, or to the forward-transparent
// overflow for non-opaque groups of the forward pass.
func (b *blockBuilder) route(p blockParams, block RendererBlock) {
	if (p.isOpaque && p.output != DepthOnlyMask) || b.exclude == PassForward {
		b.emit(b.primary, block)
		return
	}
	b.emit(b.overflow, block)
}

func (b *blockBuilder) emit(dst *Sequence, block RendererBlock) {
	*dst = append(*dst, block)
	if b.logBlocks {
		Logger().Debug("layering: block", "exclude", b.exclude, "block", block)
	}
}
