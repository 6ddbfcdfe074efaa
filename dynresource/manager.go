// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dynresource

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/forge/hal"
)

// Manager owns the drop channel and deferred-destruction ring for one
// resource kind. Resources released to zero references are not destroyed
// immediately — they sit in the ring for maxFramesInFlight calls to
// OnFrameComplete, so a command buffer still executing on the GPU against
// a just-released resource never has it pulled out from under it.
type Manager[T hal.Resource] struct {
	mu                 sync.Mutex
	dropCh             chan droppedResource[T]
	pending            [][]droppedResource[T]
	frameIndex         int
	nextAllocatorIndex atomic.Uint32
	activeCount        atomic.Int32
}

// NewManager creates a Manager that retains dropped resources for
// maxFramesInFlight frames before destroying them. maxFramesInFlight must
// be at least 1.
func NewManager[T hal.Resource](maxFramesInFlight uint32) *Manager[T] {
	if maxFramesInFlight == 0 {
		maxFramesInFlight = 1
	}
	return &Manager[T]{
		dropCh:  make(chan droppedResource[T], 256),
		pending: make([][]droppedResource[T], maxFramesInFlight),
	}
}

// CreateAllocator returns a new Allocator that inserts into this manager.
// Each allocator gets its own index namespace so allocators used from
// different goroutines never produce colliding indices.
func (m *Manager[T]) CreateAllocator() *Allocator[T] {
	idx := m.nextAllocatorIndex.Add(1) - 1
	return &Allocator[T]{
		dropTx:         m.dropCh,
		allocatorIndex: idx,
		activeCount:    &m.activeCount,
	}
}

// drainDropped pulls every resource currently queued on the drop channel
// without blocking.
func (m *Manager[T]) drainDropped() []droppedResource[T] {
	var drained []droppedResource[T]
	for {
		select {
		case d := <-m.dropCh:
			drained = append(drained, d)
			m.activeCount.Add(-1)
		default:
			return drained
		}
	}
}

// OnFrameComplete advances the retention ring by one frame: resources
// queued maxFramesInFlight frames ago are destroyed, and resources dropped
// since the last call take their place.
func (m *Manager[T]) OnFrameComplete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	drained := m.drainDropped()
	slot := m.frameIndex % len(m.pending)
	for _, d := range m.pending[slot] {
		d.value.Destroy()
	}
	m.pending[slot] = drained
	m.frameIndex++
}

// Destroy drains and destroys every resource this manager knows about,
// including anything still sitting in the retention ring. It logs a
// warning if resources were still strongly referenced (active count > 0).
func (m *Manager[T]) Destroy(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	drained := m.drainDropped()
	for _, d := range drained {
		d.value.Destroy()
	}
	for _, slot := range m.pending {
		for _, d := range slot {
			d.value.Destroy()
		}
	}

	if count := m.activeCount.Load(); count > 0 && logger != nil {
		logger.Warn("dynresource manager destroyed with outstanding references", "count", count)
	}
}

// Len returns the number of resources currently reference-counted as alive
// (not yet released to zero references).
func (m *Manager[T]) Len() int {
	return int(m.activeCount.Load())
}
