// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import "github.com/gogpu/forge/types"

// BufferConstraint is the buffer analogue of ImageConstraint.
type BufferConstraint struct {
	Size  *uint64
	Usage types.BufferUsage
}

// CanMerge reports whether every field set in both constraints agrees.
func (c BufferConstraint) CanMerge(other BufferConstraint) bool {
	if c.Size != nil && other.Size != nil && *c.Size != *other.Size {
		return false
	}
	return true
}

// TryMerge merges other into c in place, or-combining Usage.
func (c *BufferConstraint) TryMerge(other BufferConstraint) bool {
	if !c.CanMerge(other) {
		return false
	}
	if c.Size == nil {
		c.Size = other.Size
	}
	c.Usage |= other.Usage
	return true
}

// ToSpecification requires Size to be set.
func (c BufferConstraint) ToSpecification() (BufferSpecification, bool) {
	if c.Size == nil {
		return BufferSpecification{}, false
	}
	return BufferSpecification{Size: *c.Size, Usage: c.Usage}, true
}

// BufferSpecification is a fully resolved buffer description.
type BufferSpecification struct {
	Size  uint64
	Usage types.BufferUsage
}

// CanMerge reports whether two specifications may share one physical
// allocation: the larger of the two sizes is used, so any size is
// compatible — buffers only conflict if aliasing would require shrinking a
// prior allocation, which the caller (alias.go) avoids by always keeping
// the max size seen for a bucket.
func (s BufferSpecification) CanMerge(BufferSpecification) bool { return true }

// Merged returns the specification to use for a physical allocation shared
// by s and other: the larger size, union of usage flags.
func (s BufferSpecification) Merged(other BufferSpecification) BufferSpecification {
	if other.Size > s.Size {
		s.Size = other.Size
	}
	s.Usage |= other.Usage
	return s
}
