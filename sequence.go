// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

import "iter"

// Sequence is an ordered list of renderer blocks.
//
// Pass sequences are emitted while scanning descriptors from the tail, so
// their draw order is the reverse of the slice order. The forward-transparent
// overflow list is drawn in slice order.
type Sequence []RendererBlock

// DrawOrder yields the blocks from the last appended to the first.
func (s Sequence) DrawOrder() iter.Seq[RendererBlock] {
	return func(yield func(RendererBlock) bool) {
		for i := len(s) - 1; i >= 0; i-- {
			if !yield(s[i]) {
				return
			}
		}
	}
}

// InOrder yields the blocks in append order.
func (s Sequence) InOrder() iter.Seq[RendererBlock] {
	return func(yield func(RendererBlock) bool) {
		for _, b := range s {
			if !yield(b) {
				return
			}
		}
	}
}

// ForwardDraws yields every block of the forward pass in submission order:
// the forward sequence back-to-front, then the overflow list front-to-back.
func (c *Compiler) ForwardDraws() iter.Seq[RendererBlock] {
	return func(yield func(RendererBlock) bool) {
		for b := range c.forward.DrawOrder() {
			if !yield(b) {
				return
			}
		}
		for b := range c.overflow.InOrder() {
			if !yield(b) {
				return
			}
		}
	}
}

// PrePassDraws yields the pre-pass blocks in submission order.
func (c *Compiler) PrePassDraws() iter.Seq[RendererBlock] {
	return c.prepass.DrawOrder()
}

// WithTransparentBlend forces BlendTransparent on every block of seq.
// Overview maps drawn over the main view use it on their forward pass.
func WithTransparentBlend(seq iter.Seq[RendererBlock]) iter.Seq[RendererBlock] {
	return func(yield func(RendererBlock) bool) {
		for b := range seq {
			b.State.Blend = BlendTransparent
			if !yield(b) {
				return
			}
		}
	}
}
