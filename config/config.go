// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads layering descriptor lists from YAML files.
//
// A file lists drawable groups from top to bottom:
//
//	opaque_queue: 100
//	transparent_queue: 2500
//	layers:
//	  - name: buildings
//	    geometry: above_ground
//	    output: common_opaque
//	    layers: [1]
//	  - name: roads
//	    output: common_transparent
//	    layers: [2]
//	    double_draw: true
//
// Build turns the file into a Configuration: render queues are assigned from
// the seeds (opaque layers count up, transparent layers count down), opaque
// back-references are computed and every descriptor is validated.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/layering"
)

// EnvPath is the environment variable Load falls back to.
const EnvPath = "LAYERING_CONFIG"

// Default queue seeds.
const (
	DefaultOpaqueQueue      = 100
	DefaultTransparentQueue = 2500
)

var (
	// ErrNoConfig is returned by Load when neither a path nor EnvPath is set.
	ErrNoConfig = errors.New("config: no configuration path")

	// ErrEmptyLayers is returned for a file without layers.
	ErrEmptyLayers = errors.New("config: no layers")

	// ErrUnknownLayer is returned by Index for a name not in the file.
	ErrUnknownLayer = errors.New("config: unknown layer")

	// ErrDuplicateLayer is returned when two layers share a name.
	ErrDuplicateLayer = errors.New("config: duplicate layer name")

	// ErrLayerBit is returned for a rendering layer bit outside 0..28.
	ErrLayerBit = errors.New("config: rendering layer bit out of range")
)

// maxLayerBit is the highest bit a layer list may name; 29 and up are
// reserved flags set through no_sspr and double_draw.
const maxLayerBit = 28

// File is the YAML document.
type File struct {
	OpaqueQueue      int     `yaml:"opaque_queue"`
	TransparentQueue int     `yaml:"transparent_queue"`
	Layers           []Layer `yaml:"layers"`
}

// Layer describes one drawable group.
type Layer struct {
	Name     string                `yaml:"name"`
	Geometry layering.GeometryType `yaml:"geometry"`
	Output   layering.OutputType   `yaml:"output"`
	Pass     layering.PassType     `yaml:"pass"`
	Mode     layering.MapMode      `yaml:"mode"`
	Shading  layering.ShadingMode  `yaml:"shading"`

	// Bits lists rendering layer bits; Mask is OR-ed on top.
	Bits []uint `yaml:"layers"`
	Mask uint32 `yaml:"mask"`

	NoSSPR     bool `yaml:"no_sspr"`
	DoubleDraw bool `yaml:"double_draw"`

	// Queue overrides the assigned render queue.
	Queue *int `yaml:"queue"`
}

// Configuration is a built descriptor list. It implements
// layering.Configuration.
type Configuration struct {
	infos []layering.LayeringInfo
	names []string
	index map[string]int
}

// LayeringInfos returns the descriptors in list order.
func (c *Configuration) LayeringInfos() []layering.LayeringInfo { return c.infos }

// Names returns the layer names in list order.
func (c *Configuration) Names() []string { return c.names }

// Index returns the list index of the named layer.
func (c *Configuration) Index(name string) (int, error) {
	i, ok := c.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return i, nil
}

// Load reads and builds the configuration at path. An empty path falls back
// to the LAYERING_CONFIG environment variable.
func Load(path string) (*Configuration, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return nil, ErrNoConfig
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return Build(f)
}

// Parse decodes a YAML document. Missing seeds get their defaults.
func Parse(data []byte) (*File, error) {
	f := &File{
		OpaqueQueue:      DefaultOpaqueQueue,
		TransparentQueue: DefaultTransparentQueue,
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return f, nil
}

// Build assigns queues and opaque back-references to the layers of f and
// validates the result.
func Build(f *File) (*Configuration, error) {
	if f == nil || len(f.Layers) == 0 {
		return nil, ErrEmptyLayers
	}

	c := &Configuration{
		infos: make([]layering.LayeringInfo, 0, len(f.Layers)),
		names: make([]string, 0, len(f.Layers)),
		index: make(map[string]int, len(f.Layers)),
	}
	opaqueQueue, transparentQueue := f.OpaqueQueue, f.TransparentQueue
	opaqueAbove := layering.NoOpaqueAbove

	for i, l := range f.Layers {
		name := l.Name
		if name == "" {
			name = fmt.Sprintf("layer%d", i)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLayer, name)
		}

		mask, err := l.renderingLayerMask()
		if err != nil {
			return nil, fmt.Errorf("config: layer %q: %w", name, err)
		}

		info := layering.LayeringInfo{
			GeoType:            l.Geometry,
			Output:             l.Output,
			RenderPass:         l.Pass,
			Mode:               l.Mode,
			Shading:            l.Shading,
			RenderingLayerMask: mask,
			OpaqueIndexAbove:   opaqueAbove,
		}
		if info.RenderPass == 0 {
			info.RenderPass = layering.PassAll
		}
		if info.Mode == 0 {
			info.Mode = layering.MapAll
		}

		opaque := layering.IsOpaque(info)
		switch {
		case l.Queue != nil:
			info.RenderQueue = *l.Queue
		case opaque:
			info.RenderQueue = opaqueQueue
			opaqueQueue++
		default:
			info.RenderQueue = transparentQueue
			transparentQueue--
		}
		if opaque {
			opaqueAbove = i
		}

		if err := info.Validate(); err != nil {
			return nil, fmt.Errorf("config: layer %q: %w", name, err)
		}
		c.index[name] = i
		c.names = append(c.names, name)
		c.infos = append(c.infos, info)
	}

	layering.Logger().Debug("config: built",
		"layers", len(c.infos),
		"opaque_queues", fmt.Sprintf("%d..%d", f.OpaqueQueue, opaqueQueue-1),
		"transparent_queues", fmt.Sprintf("%d..%d", transparentQueue+1, f.TransparentQueue))
	return c, nil
}

func (l Layer) renderingLayerMask() (uint32, error) {
	mask := l.Mask
	for _, bit := range l.Bits {
		if bit > maxLayerBit {
			return 0, fmt.Errorf("%w: %d", ErrLayerBit, bit)
		}
		mask |= 1 << bit
	}
	if l.NoSSPR {
		mask |= layering.LayerNoSSPR
	}
	if l.DoubleDraw {
		mask |= layering.LayerDoubleDrawTransparent
	}
	return mask, nil
}
