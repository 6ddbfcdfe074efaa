// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package descriptorset

import "github.com/gogpu/forge/hal"

// BindingKey identifies one binding slot within a WriteSet. Array bindings
// are addressed as a single key; per-element writes are ordered within
// ElementWrite.Images / ElementWrite.Buffers.
type BindingKey struct {
	Binding uint32
}

// ImageWrite is the image-side payload of one array element of a binding.
type ImageWrite struct {
	View    hal.ImageView
	Sampler hal.Sampler
}

// BufferWrite is the buffer-side payload of one array element of a
// binding. Exactly one of Buffer or Inline is meaningful: an external
// buffer reference, or bytes to be copied into the chunk's internal
// buffer at this slot's stride offset.
type BufferWrite struct {
	Buffer hal.Buffer
	Offset uint64
	Range  uint64
	Inline []byte
}

// ElementWrite is everything needed to (re)write one binding. Exactly one
// of Images / Buffers is populated depending on the binding's type.
type ElementWrite struct {
	Type                hal.DescriptorBindingType
	Images              []ImageWrite
	Buffers             []BufferWrite
	HasImmutableSampler bool
}

// WriteSet is a sparse map of binding -> pending write, merged
// incrementally: assigning a binding only touches that binding, leaving
// the rest of the set (and, if already applied, the GPU-visible contents
// of those bindings) untouched.
type WriteSet struct {
	Elements map[BindingKey]ElementWrite
}

// NewWriteSet returns an empty WriteSet.
func NewWriteSet() WriteSet {
	return WriteSet{Elements: make(map[BindingKey]ElementWrite)}
}

// CopyFrom merges other into w, overwriting any binding present in both.
func (w *WriteSet) CopyFrom(other WriteSet) {
	if w.Elements == nil {
		w.Elements = make(map[BindingKey]ElementWrite, len(other.Elements))
	}
	for k, v := range other.Elements {
		w.Elements[k] = v
	}
}

// Set assigns (overwriting) the write for a single binding.
func (w *WriteSet) Set(binding uint32, write ElementWrite) {
	if w.Elements == nil {
		w.Elements = make(map[BindingKey]ElementWrite)
	}
	w.Elements[BindingKey{Binding: binding}] = write
}

// UninitializedWriteSet builds a zero-value WriteSet sized to match desc:
// one ElementWrite per binding, with Images/Buffers slices pre-sized to
// the binding's array count but left unassigned. This is the starting
// point for a freshly allocated descriptor set before any slot assignment
// has been applied.
func UninitializedWriteSet(desc hal.DescriptorSetLayoutDescriptor) WriteSet {
	ws := NewWriteSet()
	for _, binding := range desc.Bindings {
		count := binding.Count
		if count == 0 {
			count = 1
		}
		write := ElementWrite{Type: binding.Type}
		if bindsImage(binding.Type) {
			write.Images = make([]ImageWrite, count)
		} else {
			write.Buffers = make([]BufferWrite, count)
		}
		ws.Elements[BindingKey{Binding: binding.Index}] = write
	}
	return ws
}

func bindsImage(t hal.DescriptorBindingType) bool {
	switch t {
	case hal.DescriptorBindingSampler, hal.DescriptorBindingSampledImage, hal.DescriptorBindingStorageImage:
		return true
	default:
		return false
	}
}
