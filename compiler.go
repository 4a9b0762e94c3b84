// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

// Stats summarises the last compile of a Compiler.
type Stats struct {
	Forward            int
	PrePass            int
	ForwardTransparent int

	// Skipped counts descriptors dropped for an unknown geometry, output
	// or pass.
	Skipped int

	// StencilRef is the highest allocator reference reached, before clamping.
	StencilRef int

	// Saturated counts blocks emitted after the allocator passed
	// MaxStencilRef; their references alias earlier groups.
	Saturated int
}

// Compiler compiles layering descriptors into renderer block sequences.
//
// A Compiler owns its output buffers and reuses them on every compile, so it
// is not safe for concurrent use; give every view its own Compiler. The
// LevelRegistry may be shared between compilers.
type Compiler struct {
	registry  *LevelRegistry
	config    Configuration
	logBlocks bool

	forward  Sequence
	prepass  Sequence
	overflow Sequence

	scratch []LayeringInfo
	stats   Stats
}

// NewCompiler creates a compiler reading level information from registry.
// A nil registry compiles every view as single-level.
func NewCompiler(registry *LevelRegistry, opts ...CompilerOption) *Compiler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if registry == nil {
		registry = NewLevelRegistry()
	}
	return &Compiler{
		registry:  registry,
		config:    o.config,
		logBlocks: o.logBlocks,
	}
}

// SetConfiguration replaces the configuration used by Update.
func (c *Compiler) SetConfiguration(cfg Configuration) {
	c.config = cfg
}

// Update compiles the configured descriptors for viewID. It does nothing
// and returns false when no configuration is set.
func (c *Compiler) Update(viewID int) bool {
	if c.config == nil {
		return false
	}
	c.Compile(c.config.LayeringInfos(), viewID)
	return true
}

// Compile rebuilds all sequences from infos for viewID.
//
// The forward sequence is compiled excluding pre-pass-only descriptors and
// the pre-pass sequence excluding forward-only ones. Non-opaque forward
// groups go to the ForwardTransparent overflow list. An empty infos clears
// every sequence.
func (c *Compiler) Compile(infos []LayeringInfo, viewID int) {
	c.forward = c.forward[:0]
	c.prepass = c.prepass[:0]
	c.overflow = c.overflow[:0]
	c.stats = Stats{}

	infos = c.compilableDescriptors(infos)
	if len(infos) == 0 {
		return
	}

	levels := c.registry.Levels(viewID)
	c.compileSequence(infos, PassPrePass, levels, &c.forward)
	c.compileSequence(infos, PassForward, levels, &c.prepass)

	c.stats.Forward = len(c.forward)
	c.stats.PrePass = len(c.prepass)
	c.stats.ForwardTransparent = len(c.overflow)
	Logger().Debug("layering: compiled",
		"view", viewID,
		"forward", c.stats.Forward,
		"prepass", c.stats.PrePass,
		"forward_transparent", c.stats.ForwardTransparent,
		"stencil_ref", c.stats.StencilRef,
		"saturated", c.stats.Saturated)
}

// Forward returns the forward pass sequence in emission order.
// Draw it with DrawOrder. It is valid until the next compile.
func (c *Compiler) Forward() Sequence { return c.forward }

// PrePass returns the pre-pass sequence in emission order.
// Draw it with DrawOrder. It is valid until the next compile.
func (c *Compiler) PrePass() Sequence { return c.prepass }

// ForwardTransparent returns the forward overflow list, drawn InOrder after
// the forward sequence. It is valid until the next compile.
func (c *Compiler) ForwardTransparent() Sequence { return c.overflow }

// Stats returns statistics of the last compile.
func (c *Compiler) Stats() Stats { return c.stats }

// compileSequence scans infos from the tail and emits one block per run of
// descriptors sharing output, geometry and rendering layers. Descriptors of
// the excluded pass close the current run and are never emitted.
func (c *Compiler) compileSequence(infos []LayeringInfo, exclude PassType, levels LevelInfo, dst *Sequence) {
	b := blockBuilder{
		exclude:   exclude,
		levels:    levels,
		primary:   dst,
		overflow:  &c.overflow,
		logBlocks: c.logBlocks,
	}
	alloc := newStencilAllocator()

	n := len(infos)
	minQ, maxQ := infos[n-1].RenderQueue, infos[n-1].RenderQueue
	emit := func(info LayeringInfo) {
		if alloc.saturated() {
			c.stats.Saturated++
		}
		b.add(info, minQ, maxQ, alloc.current())
	}

	for i := n - 2; i >= 0; i-- {
		cur, prev := infos[i], infos[i+1]

		if startsNewBlock(prev, cur, exclude) {
			if prev.RenderPass != exclude {
				emit(prev)
				alloc.advance(prev, cur)
			}
			minQ, maxQ = cur.RenderQueue, cur.RenderQueue
			continue
		}

		switch {
		case prev.RenderPass == exclude:
			// The run so far was skipped; never merge across it.
			minQ, maxQ = cur.RenderQueue, cur.RenderQueue
		case IsOpaque(cur):
			// Opaque queues descend while scanning backwards.
			minQ = min(minQ, cur.RenderQueue)
		default:
			// Transparent queues ascend while scanning backwards.
			maxQ = max(maxQ, cur.RenderQueue)
		}
	}

	if infos[0].RenderPass != exclude {
		emit(infos[0])
	}
	c.stats.StencilRef = max(c.stats.StencilRef, alloc.ref)
}

// startsNewBlock reports whether cur cannot join the run ending at prev.
func startsNewBlock(prev, cur LayeringInfo, exclude PassType) bool {
	return prev.Output != cur.Output ||
		prev.GeoType != cur.GeoType ||
		prev.RenderingLayerMask != cur.RenderingLayerMask ||
		cur.RenderPass == exclude
}

// compilableDescriptors returns infos without the descriptors the compiler
// cannot read, with unresolvable back-references cleared. It only copies
// when something has to change.
func (c *Compiler) compilableDescriptors(infos []LayeringInfo) []LayeringInfo {
	first := -1
	for i, info := range infos {
		if checkCompilable(info) != nil ||
			(info.OpaqueIndexAbove >= 0 && !resolvesOpaqueAbove(infos, i)) {
			first = i
			break
		}
	}
	if first < 0 {
		return infos
	}

	c.scratch = append(c.scratch[:0], infos[:first]...)
	for i := first; i < len(infos); i++ {
		info := infos[i]
		if err := checkCompilable(info); err != nil {
			c.stats.Skipped++
			Logger().Warn("layering: skipping descriptor", "err", &DescriptorError{Index: i, Err: err})
			continue
		}
		if info.OpaqueIndexAbove >= 0 && !resolvesOpaqueAbove(infos, i) {
			Logger().Debug("layering: no opaque descriptor above", "index", i, "above", info.OpaqueIndexAbove)
			info.OpaqueIndexAbove = NoOpaqueAbove
		}
		c.scratch = append(c.scratch, info)
	}
	return c.scratch
}
