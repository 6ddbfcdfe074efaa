// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package descriptorset

import (
	"sync/atomic"

	"github.com/gogpu/forge/core"
	"github.com/gogpu/forge/hal"
)

// slotState backs one logical descriptor-set handle: a slab slot shared by
// every clone of the Handle, reference-counted, dropped onto pool's free
// channel once the last clone releases it.
type slotState struct {
	id       core.DescriptorSetID
	refCount atomic.Int32
	dropTx   chan<- core.DescriptorSetID
}

// Handle is a reference-counted logical descriptor set. It remains valid
// for read while at least one clone is outstanding, and for up to N
// additional frames after the last clone is released (N = the pool's
// configured frames-in-flight depth), giving in-flight GPU work time to
// finish reading the slot's current physical descriptor before it is
// reused.
type Handle struct {
	pool  *Pool
	state *slotState
}

// IsValid reports whether h wraps an allocated slot.
func (h Handle) IsValid() bool { return h.state != nil }

// ID returns the logical slab identity backing h.
func (h Handle) ID() core.DescriptorSetID { return h.state.id }

// Clone increments the reference count and returns a new handle to the
// same slot.
func (h Handle) Clone() Handle {
	h.state.refCount.Add(1)
	return h
}

// Release decrements the reference count. Once it reaches zero the slot
// is queued for a deferred free, reclaimed once the pool's frame-in-flight
// index cycles back around.
func (h Handle) Release() {
	if h.state.refCount.Add(-1) == 0 {
		h.state.dropTx <- h.state.id
	}
}

// Write schedules ws to be merged into this slot's pending write and
// applied to the physical descriptor set for the current frame-in-flight
// index the next time the owning Pool's Manager is updated.
func (h Handle) Write(ws WriteSet) {
	h.pool.scheduleWrite(h.state.id, ws)
}

// PhysicalSet returns the hal.DescriptorSetArray and the index within it
// to bind for reading at the given frame-in-flight index (pass the
// manager's read index, one behind the write index, to observe fully
// flushed writes).
func (h Handle) PhysicalSet(frameIndex uint32) (array hal.DescriptorSetArray, index uint32) {
	return h.pool.physicalSet(h.state.id, frameIndex)
}
