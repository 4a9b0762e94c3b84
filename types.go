// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

import (
	"fmt"
	"strings"
)

// GeometryType classifies how a drawable group relates to the map ground plane.
type GeometryType int8

const (
	// GeometryNone marks descriptors without geometry (full-screen effects).
	GeometryNone GeometryType = -1
	// Grounded geometry lies flat on the ground plane (roads, areas, labels on ground).
	Grounded GeometryType = 0
	// AboveGround geometry rises from the ground plane (buildings, landmarks).
	AboveGround GeometryType = 1
	// Arbitrary geometry floats freely in 3D (vehicles, markers, route ribbons).
	Arbitrary GeometryType = 2
)

var geometryNames = map[GeometryType]string{
	GeometryNone: "none",
	Grounded:     "grounded",
	AboveGround:  "above_ground",
	Arbitrary:    "arbitrary",
}

// OutputType is the desired output and blend category of a drawable group.
type OutputType int8

const (
	// CommonDefault keeps the shader's own blend state.
	CommonDefault OutputType = iota
	// OverlayDefault keeps the shader's own blend state and ignores depth.
	OverlayDefault
	// CommonTransparent is alpha blended with depth testing.
	CommonTransparent
	// OverlayTransparent is alpha blended without depth testing.
	OverlayTransparent
	// CommonOpaque is opaque with depth test and write.
	CommonOpaque
	// OverlayOpaque is opaque and drawn over 2D content.
	OverlayOpaque
	// StencilOnlyMask writes stencil only; no color, no depth.
	StencilOnlyMask
	// DepthOnlyMask writes depth only; no color.
	DepthOnlyMask
	// Custom is drawn with whatever state its material carries.
	Custom
)

var outputNames = map[OutputType]string{
	CommonDefault:      "common_default",
	OverlayDefault:     "overlay_default",
	CommonTransparent:  "common_transparent",
	OverlayTransparent: "overlay_transparent",
	CommonOpaque:       "common_opaque",
	OverlayOpaque:      "overlay_opaque",
	StencilOnlyMask:    "stencil_only_mask",
	DepthOnlyMask:      "depth_only_mask",
	Custom:             "custom",
}

// PassType selects which render pass(es) a descriptor participates in.
type PassType uint8

const (
	// PassForward is the forward color pass.
	PassForward PassType = 1
	// PassPrePass is the depth/normal pre-pass.
	PassPrePass PassType = 2
	// PassAll participates in both passes.
	PassAll PassType = 4
)

var passNames = map[PassType]string{
	PassForward: "forward",
	PassPrePass: "prepass",
	PassAll:     "all",
}

// MapMode is the map presentation a descriptor is used in.
type MapMode uint8

const (
	Map2D  MapMode = 1
	Map3D  MapMode = 2
	MapAll MapMode = 4
)

var modeNames = map[MapMode]string{
	Map2D:  "map_2d",
	Map3D:  "map_3d",
	MapAll: "map_all",
}

// ShadingMode is the lighting model of a descriptor's materials.
type ShadingMode uint8

const (
	Lit ShadingMode = iota
	Unlit
)

var shadingNames = map[ShadingMode]string{
	Lit:   "lit",
	Unlit: "unlit",
}

// NoOpaqueAbove is the OpaqueIndexAbove value of a descriptor with no
// opaque descriptor before it in the sequence.
const NoOpaqueAbove = -1

// Reserved rendering layer bits.
const (
	// LayerNoSSPR excludes a group from screen-space planar reflection.
	// It is always stripped from emitted block masks.
	LayerNoSSPR uint32 = 1 << 29
	// LayerDoubleDrawTransparent marks transparent roads drawn twice in the
	// forward pass: first without depth write, then with it.
	LayerDoubleDrawTransparent uint32 = 1 << 30
)

// LayeringInfo describes one visually distinct drawable group.
// A compile pass treats it as immutable.
type LayeringInfo struct {
	GeoType            GeometryType
	Output             OutputType
	RenderPass         PassType
	RenderingLayerMask uint32

	// Mode and Shading select materials. Compile does not read them.
	Mode    MapMode
	Shading ShadingMode

	// RenderQueue is assigned by the configuration: ascending with the list
	// index for opaque groups, descending for transparent groups.
	RenderQueue int

	// OpaqueIndexAbove is the index of the nearest preceding opaque
	// descriptor, or NoOpaqueAbove. Compile treats a value that does not
	// name an earlier opaque descriptor as NoOpaqueAbove.
	OpaqueIndexAbove int
}

// Validate reports whether every enum field holds a known value.
func (info LayeringInfo) Validate() error {
	if err := checkCompilable(info); err != nil {
		return err
	}
	if _, ok := modeNames[info.Mode]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidMode, info.Mode)
	}
	if _, ok := shadingNames[info.Shading]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidShading, info.Shading)
	}
	return nil
}

// Configuration supplies the ordered descriptor list to a Compiler.
type Configuration interface {
	LayeringInfos() []LayeringInfo
}

func (g GeometryType) String() string { return enumString(geometryNames, g, "GeometryType") }
func (o OutputType) String() string   { return enumString(outputNames, o, "OutputType") }
func (p PassType) String() string     { return enumString(passNames, p, "PassType") }
func (m MapMode) String() string      { return enumString(modeNames, m, "MapMode") }
func (s ShadingMode) String() string  { return enumString(shadingNames, s, "ShadingMode") }

// MarshalText implements encoding.TextMarshaler.
func (g GeometryType) MarshalText() ([]byte, error) { return enumMarshal(geometryNames, g, ErrInvalidGeometry) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GeometryType) UnmarshalText(b []byte) error {
	return enumUnmarshal(geometryNames, g, b, ErrInvalidGeometry)
}

// MarshalText implements encoding.TextMarshaler.
func (o OutputType) MarshalText() ([]byte, error) { return enumMarshal(outputNames, o, ErrInvalidOutput) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *OutputType) UnmarshalText(b []byte) error {
	return enumUnmarshal(outputNames, o, b, ErrInvalidOutput)
}

// MarshalText implements encoding.TextMarshaler.
func (p PassType) MarshalText() ([]byte, error) { return enumMarshal(passNames, p, ErrInvalidPass) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PassType) UnmarshalText(b []byte) error {
	return enumUnmarshal(passNames, p, b, ErrInvalidPass)
}

// MarshalText implements encoding.TextMarshaler.
func (m MapMode) MarshalText() ([]byte, error) { return enumMarshal(modeNames, m, ErrInvalidMode) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MapMode) UnmarshalText(b []byte) error {
	return enumUnmarshal(modeNames, m, b, ErrInvalidMode)
}

// MarshalText implements encoding.TextMarshaler.
func (s ShadingMode) MarshalText() ([]byte, error) {
	return enumMarshal(shadingNames, s, ErrInvalidShading)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ShadingMode) UnmarshalText(b []byte) error {
	return enumUnmarshal(shadingNames, s, b, ErrInvalidShading)
}

func enumString[T ~int8 | ~uint8](names map[T]string, v T, kind string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func enumMarshal[T ~int8 | ~uint8](names map[T]string, v T, sentinel error) ([]byte, error) {
	name, ok := names[v]
	if !ok {
		return nil, fmt.Errorf("%w: %d", sentinel, v)
	}
	return []byte(name), nil
}

func enumUnmarshal[T ~int8 | ~uint8](names map[T]string, dst *T, b []byte, sentinel error) error {
	text := strings.ToLower(strings.TrimSpace(string(b)))
	for v, name := range names {
		if name == text {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("%w: %q", sentinel, text)
}
