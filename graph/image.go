// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import "github.com/gogpu/forge/types"

// ImageAspectFlags is a bitset over the aspects a graph usage touches. The
// HAL's types.TextureAspect is a scalar enum (all/depth-only/stencil-only);
// the graph needs an or-combinable set while propagating constraints across
// several usages of the same version, so it tracks its own bitset and
// collapses it to a types.TextureAspect only when emitting a concrete
// ImageViewDescriptor/ImageRange.
type ImageAspectFlags uint8

const (
	ImageAspectColor ImageAspectFlags = 1 << iota
	ImageAspectDepth
	ImageAspectStencil
)

// Resolve collapses the bitset to the closest types.TextureAspect.
func (f ImageAspectFlags) Resolve() types.TextureAspect {
	switch {
	case f&ImageAspectDepth != 0 && f&ImageAspectStencil == 0:
		return types.TextureAspectDepthOnly
	case f&ImageAspectStencil != 0 && f&ImageAspectDepth == 0:
		return types.TextureAspectStencilOnly
	default:
		return types.TextureAspectAll
	}
}

// ImageConstraint is a partially specified set of requirements on a virtual
// image. Unset pointer fields are unconstrained; Compile propagates
// constraints across every usage of a version until all required fields
// are set, or fails if two usages disagree.
type ImageConstraint struct {
	Format      *types.TextureFormat
	Extent      *types.Extent3D
	SampleCount *uint32
	MipLevels   *uint32
	Aspect      ImageAspectFlags
	Usage       types.TextureUsage
}

// CanMerge reports whether every field set in both constraints agrees.
func (c ImageConstraint) CanMerge(other ImageConstraint) bool {
	if c.Format != nil && other.Format != nil && *c.Format != *other.Format {
		return false
	}
	if c.Extent != nil && other.Extent != nil && *c.Extent != *other.Extent {
		return false
	}
	if c.SampleCount != nil && other.SampleCount != nil && *c.SampleCount != *other.SampleCount {
		return false
	}
	if c.MipLevels != nil && other.MipLevels != nil && *c.MipLevels != *other.MipLevels {
		return false
	}
	return true
}

// TryMerge merges other into c in place, adopting any field c leaves unset
// and or-combining Aspect/Usage. Returns false (making no change) if the
// two constraints conflict.
func (c *ImageConstraint) TryMerge(other ImageConstraint) bool {
	if !c.CanMerge(other) {
		return false
	}
	if c.Format == nil {
		c.Format = other.Format
	}
	if c.Extent == nil {
		c.Extent = other.Extent
	}
	if c.SampleCount == nil {
		c.SampleCount = other.SampleCount
	}
	if c.MipLevels == nil {
		c.MipLevels = other.MipLevels
	}
	c.Aspect |= other.Aspect
	c.Usage |= other.Usage
	return true
}

// ToSpecification requires Format and Extent to be set (SampleCount and
// MipLevels default to 1), returning the fully resolved specification.
func (c ImageConstraint) ToSpecification() (ImageSpecification, bool) {
	if c.Format == nil || c.Extent == nil {
		return ImageSpecification{}, false
	}
	samples := uint32(1)
	if c.SampleCount != nil {
		samples = *c.SampleCount
	}
	mips := uint32(1)
	if c.MipLevels != nil {
		mips = *c.MipLevels
	}
	return ImageSpecification{
		Format:      *c.Format,
		Extent:      *c.Extent,
		SampleCount: samples,
		MipLevels:   mips,
		Aspect:      c.Aspect,
		Usage:       c.Usage,
	}, true
}

// ImageSpecification is a fully resolved image description, produced once
// constraint propagation reaches a fixed point.
type ImageSpecification struct {
	Format      types.TextureFormat
	Extent      types.Extent3D
	SampleCount uint32
	MipLevels   uint32
	Aspect      ImageAspectFlags
	Usage       types.TextureUsage
}

// CanMerge reports whether two specifications may share one physical
// allocation: format, extent, sample count, and mip levels must match
// exactly; aspect/usage differences are fine since the physical allocation
// is created with the union of both.
func (s ImageSpecification) CanMerge(other ImageSpecification) bool {
	return s.Format == other.Format && s.Extent == other.Extent &&
		s.SampleCount == other.SampleCount && s.MipLevels == other.MipLevels
}

// Merged returns the specification to use for a physical allocation shared
// by s and other: identical core attributes, union of aspect/usage.
func (s ImageSpecification) Merged(other ImageSpecification) ImageSpecification {
	s.Aspect |= other.Aspect
	s.Usage |= other.Usage
	return s
}
