// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dynresource

import (
	"sync/atomic"

	"github.com/gogpu/forge/hal"
)

// droppedResource is sent on a Manager's drop channel when a ResourceArc's
// strong count reaches zero.
type droppedResource[T hal.Resource] struct {
	value T
	index uint64
}

type resourceArcInner[T hal.Resource] struct {
	value    T
	index    uint64
	refCount atomic.Int32
	dropTx   chan<- droppedResource[T]
}

// ResourceArc is a reference-counted handle to a HAL resource. Cloning
// increments the reference count; Release decrements it, and when it
// reaches zero the resource is handed to its owning Manager for deferred
// destruction rather than destroyed inline.
type ResourceArc[T hal.Resource] struct {
	inner *resourceArcInner[T]
}

func newResourceArc[T hal.Resource](value T, index uint64, dropTx chan<- droppedResource[T]) ResourceArc[T] {
	inner := &resourceArcInner[T]{value: value, index: index, dropTx: dropTx}
	inner.refCount.Store(1)
	return ResourceArc[T]{inner: inner}
}

// IsValid reports whether the arc wraps a live resource.
func (r ResourceArc[T]) IsValid() bool {
	return r.inner != nil
}

// Get returns the wrapped resource.
func (r ResourceArc[T]) Get() T {
	return r.inner.value
}

// Index returns the allocator-assigned index for this resource. It is
// unique within the allocator set that created it and is primarily useful
// for logging and tracker-index correlation.
func (r ResourceArc[T]) Index() uint64 {
	return r.inner.index
}

// Clone increments the reference count and returns a new handle to the
// same underlying resource.
func (r ResourceArc[T]) Clone() ResourceArc[T] {
	r.inner.refCount.Add(1)
	return r
}

// Release decrements the reference count. When the count reaches zero the
// resource is queued on the owning Manager for destruction after enough
// frames have completed that no in-flight command buffer can still
// reference it.
func (r ResourceArc[T]) Release() {
	if r.inner.refCount.Add(-1) == 0 && r.inner.dropTx != nil {
		r.inner.dropTx <- droppedResource[T]{value: r.inner.value, index: r.inner.index}
	}
}

// Downgrade returns a WeakResourceArc that does not keep the resource
// alive on its own.
func (r ResourceArc[T]) Downgrade() WeakResourceArc[T] {
	return WeakResourceArc[T]{inner: r.inner}
}

// WeakResourceArc observes a ResourceArc without holding a strong
// reference. It can be upgraded back into a ResourceArc as long as at
// least one strong reference is still alive.
type WeakResourceArc[T hal.Resource] struct {
	inner *resourceArcInner[T]
}

// Upgrade attempts to produce a new strong ResourceArc. It fails if the
// last strong reference has already been released.
func (w WeakResourceArc[T]) Upgrade() (ResourceArc[T], bool) {
	if w.inner == nil {
		return ResourceArc[T]{}, false
	}
	for {
		count := w.inner.refCount.Load()
		if count <= 0 {
			return ResourceArc[T]{}, false
		}
		if w.inner.refCount.CompareAndSwap(count, count+1) {
			return ResourceArc[T]{inner: w.inner}, true
		}
	}
}
