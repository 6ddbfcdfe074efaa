// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dynresource

import (
	"sync/atomic"

	"github.com/gogpu/forge/hal"
)

// Allocator hands out ResourceArc handles for a single resource kind. It is
// cheap to create and is typically given out one-per-thread by a Manager so
// concurrent inserts never contend on a shared index counter (the live
// count they bump is shared with the Manager).
type Allocator[T hal.Resource] struct {
	dropTx         chan<- droppedResource[T]
	allocatorIndex uint32
	nextLocal      atomic.Uint32
	activeCount    *atomic.Int32
}

// Insert wraps value in a new ResourceArc with a reference count of one.
func (a *Allocator[T]) Insert(value T) ResourceArc[T] {
	local := a.nextLocal.Add(1) - 1
	index := uint64(a.allocatorIndex)<<32 | uint64(local)
	a.activeCount.Add(1)
	return newResourceArc(value, index, a.dropTx)
}
