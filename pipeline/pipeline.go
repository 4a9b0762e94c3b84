// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline turns layering renderer blocks into wgpu HAL render
// pipelines and records them into render passes.
//
// Fixed-function state is baked into a HAL pipeline, so every distinct
// blend/depth/stencil combination needs its own pipeline. The stencil
// reference is dynamic and set on the pass instead:
//
//	tmpl := pipeline.DefaultTemplate()
//	tmpl.Layout, tmpl.Vertex.Module, tmpl.FragmentModule = layout, shader, shader
//
//	cache, err := pipeline.NewCache(device, &tmpl)
//	if err != nil {
//	    return err
//	}
//	defer cache.Destroy()
//
//	n, err := cache.Record(pass, compiler.ForwardDraws(), drawRenderers)
package pipeline

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/layering"
)

var (
	// ErrNilDevice is returned when creating a cache without a device.
	ErrNilDevice = errors.New("pipeline: HAL device is nil")

	// ErrNilTemplate is returned when no pipeline template is given.
	ErrNilTemplate = errors.New("pipeline: template is nil")
)

// Template holds the parts of a render pipeline that renderer blocks do not
// override. Defaults supplies blend, depth and stencil state for the parts a
// block leaves out of its StateMask.
type Template struct {
	Label  string
	Layout hal.PipelineLayout
	Vertex hal.VertexState

	// FragmentModule may be nil for depth-only pipelines.
	FragmentModule     hal.ShaderModule
	FragmentEntryPoint string

	ColorFormat        gputypes.TextureFormat
	DepthStencilFormat gputypes.TextureFormat

	Primitive   gputypes.PrimitiveState
	Multisample gputypes.MultisampleState

	Defaults layering.PipelineState
}

// DefaultTemplate returns a template for BGRA8 color with a combined
// depth/stencil attachment, back-face culled triangle lists and no MSAA.
// Shader modules and the layout are left for the caller.
func DefaultTemplate() Template {
	return Template{
		Label:              "layering",
		FragmentEntryPoint: "fs_main",
		Vertex:             hal.VertexState{EntryPoint: "vs_main"},
		ColorFormat:        gputypes.TextureFormatBGRA8Unorm,
		DepthStencilFormat: gputypes.TextureFormatDepth24PlusStencil8,
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Defaults: layering.PipelineState{
			Blend: layering.BlendOpaque,
			Depth: layering.DepthOpaque,
		},
	}
}

// Descriptor builds the HAL pipeline descriptor drawing state with tmpl.
// The stencil reference is not part of the descriptor.
func Descriptor(state layering.PipelineState, tmpl *Template) (*hal.RenderPipelineDescriptor, error) {
	if tmpl == nil {
		return nil, ErrNilTemplate
	}

	blend, depth, stencil := tmpl.Defaults.Blend, tmpl.Defaults.Depth, tmpl.Defaults.Stencil
	if state.Mask.Has(layering.StateBlend) {
		blend = state.Blend
	}
	if state.Mask.Has(layering.StateDepth) {
		depth = state.Depth
	}
	if state.Mask.Has(layering.StateStencil) {
		stencil = state.Stencil
	}

	desc := &hal.RenderPipelineDescriptor{
		Label:        tmpl.Label,
		Layout:       tmpl.Layout,
		Vertex:       tmpl.Vertex,
		Primitive:    tmpl.Primitive,
		DepthStencil: depthStencilState(tmpl.DepthStencilFormat, depth, stencil),
		Multisample:  tmpl.Multisample,
	}
	if tmpl.FragmentModule != nil {
		b := blend.Blend
		desc.Fragment = &hal.FragmentState{
			Module:     tmpl.FragmentModule,
			EntryPoint: tmpl.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    tmpl.ColorFormat,
					Blend:     &b,
					WriteMask: blend.WriteMask,
				},
			},
		}
	}
	return desc, nil
}

// disabledFace passes every fragment and never touches the stencil buffer.
var disabledFace = hal.StencilFaceState{
	Compare:     gputypes.CompareFunctionAlways,
	FailOp:      hal.StencilOperationKeep,
	DepthFailOp: hal.StencilOperationKeep,
	PassOp:      hal.StencilOperationKeep,
}

func depthStencilState(format gputypes.TextureFormat, depth layering.DepthState, stencil layering.StencilState) *hal.DepthStencilState {
	if format == gputypes.TextureFormatUndefined {
		return nil
	}
	ds := &hal.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: depth.WriteEnabled,
		DepthCompare:      compareFunction(depth.Compare),
		StencilFront:      disabledFace,
		StencilBack:       disabledFace,
	}
	if stencil.Enabled {
		ds.StencilFront = stencilFace(stencil.Front)
		ds.StencilBack = stencilFace(stencil.Back)
		ds.StencilReadMask = uint32(stencil.ReadMask)
		ds.StencilWriteMask = uint32(stencil.WriteMask)
	}
	return ds
}

func stencilFace(f gputypes.StencilFaceState) hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     compareFunction(f.Compare),
		FailOp:      stencilOperation(f.FailOp),
		DepthFailOp: stencilOperation(f.DepthFailOp),
		PassOp:      stencilOperation(f.PassOp),
	}
}

// compareFunction maps Undefined to Always.
func compareFunction(f gputypes.CompareFunction) gputypes.CompareFunction {
	if f == gputypes.CompareFunctionUndefined {
		return gputypes.CompareFunctionAlways
	}
	return f
}

// stencilOperation converts a WebGPU stencil operation to its HAL value.
// Undefined maps to Keep.
func stencilOperation(op gputypes.StencilOperation) hal.StencilOperation {
	switch op {
	case gputypes.StencilOperationZero:
		return hal.StencilOperationZero
	case gputypes.StencilOperationReplace:
		return hal.StencilOperationReplace
	case gputypes.StencilOperationInvert:
		return hal.StencilOperationInvert
	case gputypes.StencilOperationIncrementClamp:
		return hal.StencilOperationIncrementClamp
	case gputypes.StencilOperationDecrementClamp:
		return hal.StencilOperationDecrementClamp
	case gputypes.StencilOperationIncrementWrap:
		return hal.StencilOperationIncrementWrap
	case gputypes.StencilOperationDecrementWrap:
		return hal.StencilOperationDecrementWrap
	default:
		return hal.StencilOperationKeep
	}
}
