// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layering

import (
	"errors"
	"fmt"
)

// Sentinel errors for descriptor validation.
var (
	// ErrInvalidGeometry is returned for an unknown GeometryType.
	ErrInvalidGeometry = errors.New("layering: invalid geometry type")

	// ErrInvalidOutput is returned for an unknown OutputType.
	ErrInvalidOutput = errors.New("layering: invalid output type")

	// ErrInvalidPass is returned for an unknown PassType.
	ErrInvalidPass = errors.New("layering: invalid render pass")

	// ErrInvalidMode is returned for an unknown MapMode.
	ErrInvalidMode = errors.New("layering: invalid map mode")

	// ErrInvalidShading is returned for an unknown ShadingMode.
	ErrInvalidShading = errors.New("layering: invalid shading mode")

	// ErrNoSuchDescriptor is returned when OpaqueIndexAbove does not name an
	// earlier opaque descriptor.
	ErrNoSuchDescriptor = errors.New("layering: opaque back-reference out of range")
)

// DescriptorError reports a descriptor that cannot be compiled.
type DescriptorError struct {
	Index int
	Err   error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("layering: descriptor %d: %v", e.Index, e.Err)
}

func (e *DescriptorError) Unwrap() error { return e.Err }

// ValidateSequence checks every descriptor of infos and returns one
// DescriptorError per invalid entry, joined with errors.Join.
//
// It is stricter than Compile, which only drops descriptors with an unknown
// geometry, output or pass and treats an unresolvable OpaqueIndexAbove as
// NoOpaqueAbove.
func ValidateSequence(infos []LayeringInfo) error {
	var errs []error
	for i, info := range infos {
		if err := validateAt(infos, i, info); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateAt(infos []LayeringInfo, i int, info LayeringInfo) error {
	if err := info.Validate(); err != nil {
		return &DescriptorError{Index: i, Err: err}
	}
	if above := info.OpaqueIndexAbove; above != NoOpaqueAbove && !resolvesOpaqueAbove(infos, i) {
		return &DescriptorError{Index: i, Err: fmt.Errorf("%w: %d", ErrNoSuchDescriptor, above)}
	}
	return nil
}

// checkCompilable reports whether info carries every field the compiler
// reads. Mode and Shading are never read.
func checkCompilable(info LayeringInfo) error {
	if _, ok := geometryNames[info.GeoType]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidGeometry, info.GeoType)
	}
	if _, ok := outputNames[info.Output]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidOutput, info.Output)
	}
	if _, ok := passNames[info.RenderPass]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidPass, info.RenderPass)
	}
	return nil
}

// resolvesOpaqueAbove reports whether the back-reference of infos[i] names
// an earlier opaque descriptor.
func resolvesOpaqueAbove(infos []LayeringInfo, i int) bool {
	above := infos[i].OpaqueIndexAbove
	return above >= 0 && above < i && IsOpaque(infos[above])
}
