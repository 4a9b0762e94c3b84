// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

import (
	"slices"
	"testing"
)

func queues(seq func(func(RendererBlock) bool)) []int {
	var out []int
	for b := range seq {
		out = append(out, b.MinQueue)
	}
	return out
}

func TestSequenceOrder(t *testing.T) {
	s := Sequence{{MinQueue: 1}, {MinQueue: 2}, {MinQueue: 3}}

	if got, want := queues(s.DrawOrder()), []int{3, 2, 1}; !slices.Equal(got, want) {
		t.Errorf("DrawOrder() = %v, want %v", got, want)
	}
	if got, want := queues(s.InOrder()), []int{1, 2, 3}; !slices.Equal(got, want) {
		t.Errorf("InOrder() = %v, want %v", got, want)
	}

	var n int
	for range s.DrawOrder() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("DrawOrder() ignored break, yielded %d", n)
	}
}

func TestForwardDraws(t *testing.T) {
	infos := []LayeringInfo{
		desc(CommonTransparent, Grounded, 2501, 2),
		desc(CommonTransparent, Grounded, 2500, 1),
		desc(CommonOpaque, Grounded, 101, 2),
		desc(CommonOpaque, Grounded, 100, 1),
	}
	c := NewCompiler(nil)
	c.Compile(infos, 0)

	// Opaque groups in list order, then transparent groups from the back.
	want := []int{101, 100, 2500, 2501}
	if got := queues(c.ForwardDraws()); !slices.Equal(got, want) {
		t.Errorf("ForwardDraws() = %v, want %v", got, want)
	}
	if got, want := queues(c.PrePassDraws()), []int{2501, 2500, 101, 100}; !slices.Equal(got, want) {
		t.Errorf("PrePassDraws() = %v, want %v", got, want)
	}
}

func TestWithTransparentBlend(t *testing.T) {
	c := NewCompiler(nil)
	c.Compile([]LayeringInfo{desc(CommonOpaque, Grounded, 100, 1)}, 0)

	for b := range WithTransparentBlend(c.ForwardDraws()) {
		if b.State.Blend != BlendTransparent {
			t.Errorf("blend = %+v, want BlendTransparent", b.State.Blend)
		}
	}
	if c.Forward()[0].State.Blend != BlendOpaque {
		t.Error("WithTransparentBlend modified the compiled sequence")
	}
}
