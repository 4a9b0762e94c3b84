// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/layering"
)

// Cache creates and caches one HAL render pipeline per distinct pipeline
// state.
//
// The cache key is the state without its stencil reference, and with the
// parts outside its StateMask cleared, so blocks differing only in those
// share a pipeline.
//
// Thread Safety:
// Cache is safe for concurrent use. It uses RWMutex with double-check
// locking for reads and creation.
type Cache struct {
	device hal.Device
	tmpl   Template

	// mu protects pipelines.
	mu        sync.RWMutex
	pipelines map[layering.PipelineState]hal.RenderPipeline

	hits   uint64
	misses uint64
}

// NewCache creates an empty cache building pipelines on device from a copy
// of tmpl.
func NewCache(device hal.Device, tmpl *Template) (*Cache, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if tmpl == nil {
		return nil, ErrNilTemplate
	}
	return &Cache{
		device:    device,
		tmpl:      *tmpl,
		pipelines: make(map[layering.PipelineState]hal.RenderPipeline),
	}, nil
}

// Get returns the pipeline drawing state, creating it on first use.
func (c *Cache) Get(state layering.PipelineState) (hal.RenderPipeline, error) {
	key := cacheKey(state)

	// Fast path: read lock
	c.mu.RLock()
	if p, ok := c.pipelines[key]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pipelines[key]; ok {
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}

	desc, err := Descriptor(key, &c.tmpl)
	if err != nil {
		return nil, err
	}
	p, err := c.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("pipeline: create render pipeline: %w", err)
	}
	c.pipelines[key] = p
	atomic.AddUint64(&c.misses, 1)

	layering.Logger().Debug("pipeline: created", "state", key, "cached", len(c.pipelines))
	return p, nil
}

// Len returns the number of cached pipelines.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// Stats returns the cache hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// Destroy releases every cached pipeline. The cache stays usable and
// recreates pipelines on demand.
func (c *Cache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, p := range c.pipelines {
		c.device.DestroyRenderPipeline(p)
		delete(c.pipelines, key)
	}
}

func cacheKey(state layering.PipelineState) layering.PipelineState {
	key := layering.PipelineState{Mask: state.Mask}
	if state.Mask.Has(layering.StateBlend) {
		key.Blend = state.Blend
	}
	if state.Mask.Has(layering.StateDepth) {
		key.Depth = state.Depth
	}
	if state.Mask.Has(layering.StateStencil) {
		key.Stencil = state.Stencil
	}
	return key
}
