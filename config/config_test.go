// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/layering"
)

func TestLoadSample(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "map.yaml"))
	require.NoError(t, err)

	infos := cfg.LayeringInfos()
	require.Len(t, infos, 8)
	assert.Equal(t, []string{
		"labels", "markers", "buildings", "building_decorations",
		"roads", "hole_mask", "water", "ground",
	}, cfg.Names())

	var queues, above []int
	for _, info := range infos {
		queues = append(queues, info.RenderQueue)
		above = append(above, info.OpaqueIndexAbove)
	}
	assert.Equal(t, []int{2500, 100, 101, 2499, 2498, 102, 103, 104}, queues)
	assert.Equal(t, []int{-1, -1, 1, 2, 2, 2, 5, 6}, above)

	labels := infos[0]
	assert.Equal(t, layering.GeometryNone, labels.GeoType)
	assert.Equal(t, layering.OverlayTransparent, labels.Output)
	assert.Equal(t, layering.PassForward, labels.RenderPass)
	assert.Equal(t, layering.Unlit, labels.Shading)
	assert.Equal(t, layering.MapAll, labels.Mode)
	assert.Equal(t, uint32(1<<20), labels.RenderingLayerMask)

	assert.Equal(t, layering.PassAll, infos[1].RenderPass)
	assert.Equal(t, layering.Map3D, infos[2].Mode)
	assert.Equal(t, uint32(1<<16)|layering.LayerDoubleDrawTransparent, infos[4].RenderingLayerMask)
	assert.Equal(t, uint32(1<<14)|layering.LayerNoSSPR, infos[6].RenderingLayerMask)

	idx, err := cfg.Index("water")
	require.NoError(t, err)
	assert.Equal(t, 6, idx)

	_, err = cfg.Index("sky")
	assert.ErrorIs(t, err, ErrUnknownLayer)

	assert.NoError(t, layering.ValidateSequence(infos))
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv(EnvPath, filepath.Join("testdata", "map.yaml"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.LayeringInfos(), 8)

	t.Setenv(EnvPath, "")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseDefaults(t *testing.T) {
	f, err := Parse([]byte("layers:\n  - output: common_opaque\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultOpaqueQueue, f.OpaqueQueue)
	assert.Equal(t, DefaultTransparentQueue, f.TransparentQueue)

	cfg, err := Build(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"layer0"}, cfg.Names())
	assert.Equal(t, layering.Grounded, cfg.LayeringInfos()[0].GeoType)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown output", "layers:\n  - output: glowing\n", layering.ErrInvalidOutput},
		{"unknown geometry", "layers:\n  - geometry: floating\n", layering.ErrInvalidGeometry},
		{"unknown pass", "layers:\n  - pass: shadow\n", layering.ErrInvalidPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte("layers: [\n"))
	assert.Error(t, err)
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(&File{})
	assert.ErrorIs(t, err, ErrEmptyLayers)

	_, err = Build(nil)
	assert.ErrorIs(t, err, ErrEmptyLayers)

	_, err = Build(&File{Layers: []Layer{{Name: "a"}, {Name: "a"}}})
	assert.ErrorIs(t, err, ErrDuplicateLayer)

	_, err = Build(&File{Layers: []Layer{{Name: "a", Bits: []uint{29}}}})
	assert.ErrorIs(t, err, ErrLayerBit)

	_, err = Build(&File{Layers: []Layer{{Name: "a", Shading: 9}}})
	assert.ErrorIs(t, err, layering.ErrInvalidShading)
}

func TestBuildExplicitQueue(t *testing.T) {
	q := 2000
	cfg, err := Build(&File{
		OpaqueQueue:      10,
		TransparentQueue: 50,
		Layers: []Layer{
			{Name: "top", Output: layering.CommonTransparent},
			{Name: "pinned", Output: layering.CommonOpaque, Queue: &q},
			{Name: "bottom", Output: layering.CommonOpaque},
		},
	})
	require.NoError(t, err)

	infos := cfg.LayeringInfos()
	assert.Equal(t, 50, infos[0].RenderQueue)
	assert.Equal(t, 2000, infos[1].RenderQueue)
	assert.Equal(t, 10, infos[2].RenderQueue)
	assert.Equal(t, 1, infos[2].OpaqueIndexAbove)
}

func TestConfigurationDrivesCompiler(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "map.yaml"))
	require.NoError(t, err)

	r := layering.NewLevelRegistry()
	r.SetScale(30_000, 0)
	c := layering.NewCompiler(r, layering.WithConfiguration(cfg))
	require.True(t, c.Update(0))

	stats := c.Stats()
	assert.Zero(t, stats.Skipped)
	assert.NotEmpty(t, c.Forward())
	assert.NotEmpty(t, c.PrePass())
	assert.NotEmpty(t, c.ForwardTransparent())

	for _, b := range c.PrePass() {
		assert.Zero(t, b.RenderingLayerMask&layering.LayerNoSSPR, "no-SSPR bit leaked into %+v", b)
	}
}
