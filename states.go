// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

import (
	"log/slog"

	"github.com/gogpu/gputypes"
)

// StateMask selects which parts of a PipelineState override the material's
// own state. Unselected parts keep the pipeline default.
type StateMask uint8

const (
	StateBlend StateMask = 1 << iota
	StateDepth
	StateStencil

	StateNone StateMask = 0
	StateAll            = StateBlend | StateDepth | StateStencil
)

// Has reports whether all bits of s2 are set in m.
func (m StateMask) Has(s2 StateMask) bool { return m&s2 == s2 }

// BlendState is the color blend of render target 0.
type BlendState struct {
	Blend     gputypes.BlendState
	WriteMask gputypes.ColorWriteMask
}

// DepthState is the depth test configuration.
type DepthState struct {
	WriteEnabled bool
	Compare      gputypes.CompareFunction
}

// StencilState is the stencil test configuration. Front and back faces
// always carry the same operations in blocks built by a Compiler.
type StencilState struct {
	Enabled   bool
	ReadMask  uint8
	WriteMask uint8
	Front     gputypes.StencilFaceState
	Back      gputypes.StencilFaceState
}

// setCompare sets the compare function of both faces.
func (s *StencilState) setCompare(f gputypes.CompareFunction) {
	s.Front.Compare, s.Back.Compare = f, f
}

// setPass sets the pass operation of both faces.
func (s *StencilState) setPass(op gputypes.StencilOperation) {
	s.Front.PassOp, s.Back.PassOp = op, op
}

// setFail sets the stencil-fail and depth-fail operations of both faces.
func (s *StencilState) setFail(op gputypes.StencilOperation) {
	s.Front.FailOp, s.Back.FailOp = op, op
	s.Front.DepthFailOp, s.Back.DepthFailOp = op, op
}

// PipelineState is the fixed-function state applied to one renderer block.
// It is a comparable value type.
type PipelineState struct {
	Mask             StateMask
	Blend            BlendState
	Depth            DepthState
	Stencil          StencilState
	StencilReference uint32
}

// Blend presets.
var (
	BlendTransparent = BlendState{
		Blend: gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
		},
		WriteMask: gputypes.ColorWriteMaskAll,
	}

	BlendOpaque = BlendState{
		Blend:     gputypes.BlendStateReplace(),
		WriteMask: gputypes.ColorWriteMaskAll,
	}

	// BlendOpaqueNoColor is used by masks: it only touches depth/stencil.
	BlendOpaqueNoColor = BlendState{
		Blend:     gputypes.BlendStateReplace(),
		WriteMask: gputypes.ColorWriteMaskNone,
	}
)

// Depth presets.
var (
	DepthOpaque        = DepthState{WriteEnabled: true, Compare: gputypes.CompareFunctionLessEqual}
	DepthTransparent   = DepthState{WriteEnabled: false, Compare: gputypes.CompareFunctionLessEqual}
	DepthNoTestWrite   = DepthState{WriteEnabled: true, Compare: gputypes.CompareFunctionAlways}
	DepthNoTestNoWrite = DepthState{WriteEnabled: false, Compare: gputypes.CompareFunctionAlways}
)

// LogValue implements slog.LogValuer.
func (s PipelineState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("mask", s.Mask),
		slog.Group("blend",
			slog.String("src", s.Blend.Blend.Color.SrcFactor.String()),
			slog.String("dst", s.Blend.Blend.Color.DstFactor.String()),
			slog.Any("write", s.Blend.WriteMask),
		),
		slog.Group("depth",
			slog.Bool("write", s.Depth.WriteEnabled),
			slog.String("compare", s.Depth.Compare.String()),
		),
		slog.Group("stencil",
			slog.Bool("enabled", s.Stencil.Enabled),
			slog.Any("read", s.Stencil.ReadMask),
			slog.Any("write", s.Stencil.WriteMask),
			slog.String("compare", s.Stencil.Front.Compare.String()),
			slog.String("pass", s.Stencil.Front.PassOp.String()),
			slog.String("fail", s.Stencil.Front.FailOp.String()),
		),
		slog.Any("ref", s.StencilReference),
	)
}

func (m StateMask) String() string {
	if m == StateNone {
		return "none"
	}
	var s string
	for _, part := range []struct {
		bit  StateMask
		name string
	}{{StateBlend, "blend"}, {StateDepth, "depth"}, {StateStencil, "stencil"}} {
		if m.Has(part.bit) {
			if s != "" {
				s += "|"
			}
			s += part.name
		}
	}
	return s
}
