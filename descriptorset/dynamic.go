// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package descriptorset

// DynamicSet accumulates partial writes against a Handle and commits them
// as a single merged write. Because a scheduled write is only ever applied
// to the physical descriptor for the *current* frame-in-flight index, the
// per-frame double buffer already isolates in-flight frames reading older
// physical slots from a commit in progress: no slot reallocation is needed
// to preserve S4 (double-buffer read stability).
type DynamicSet struct {
	handle  Handle
	staged  WriteSet
	pending bool
}

// NewDynamicSet wraps handle for incremental mutation.
func NewDynamicSet(handle Handle) *DynamicSet {
	return &DynamicSet{handle: handle, staged: NewWriteSet()}
}

// Handle returns the underlying descriptor-set handle.
func (d *DynamicSet) Handle() Handle { return d.handle }

// SetImage stages an image/sampler write for binding, replacing any
// previously staged write for the same binding.
func (d *DynamicSet) SetImage(binding uint32, images []ImageWrite) {
	d.staged.Set(binding, ElementWrite{Images: images})
	d.pending = true
}

// SetBuffer stages a buffer-reference or inline-bytes write for binding.
func (d *DynamicSet) SetBuffer(binding uint32, buffers []BufferWrite) {
	d.staged.Set(binding, ElementWrite{Buffers: buffers})
	d.pending = true
}

// Commit merges every staged write into the handle's slot in one shot and
// clears the staging area. It is a no-op if nothing was staged since the
// last commit.
func (d *DynamicSet) Commit() {
	if !d.pending {
		return
	}
	d.handle.Write(d.staged)
	d.staged = NewWriteSet()
	d.pending = false
}
