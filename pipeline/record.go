// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"fmt"
	"iter"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/layering"
)

// DrawFunc draws every renderer whose render queue lies in
// [block.MinQueue, block.MaxQueue] and whose rendering layers intersect
// block.RenderingLayerMask. The pipeline and stencil reference are already
// set on pass.
type DrawFunc func(pass hal.RenderPassEncoder, block layering.RendererBlock) error

// Record draws blocks into pass in iteration order and returns how many
// were drawn. Pipelines and stencil references are only rebound when they
// change between consecutive blocks. Recording stops at the first error.
func (c *Cache) Record(pass hal.RenderPassEncoder, blocks iter.Seq[layering.RendererBlock], draw DrawFunc) (int, error) {
	var (
		n        int
		bound    hal.RenderPipeline
		ref      uint32
		refBound bool
	)
	for block := range blocks {
		p, err := c.Get(block.State)
		if err != nil {
			return n, fmt.Errorf("pipeline: block %d: %w", n, err)
		}
		if p != bound {
			pass.SetPipeline(p)
			bound = p
		}
		if !refBound || block.State.StencilReference != ref {
			pass.SetStencilReference(block.State.StencilReference)
			ref, refBound = block.State.StencilReference, true
		}
		if err := draw(pass, block); err != nil {
			return n, fmt.Errorf("pipeline: draw block %d: %w", n, err)
		}
		n++
	}
	return n, nil
}
