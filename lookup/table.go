// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lookup

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/forge/dynresource"
	"github.com/gogpu/forge/hal"
)

// Releaser is satisfied by dynresource.ResourceArc[T] and lookup.Handle[T]
// (and their weak-upgraded forms' strong results) — anything a dependent
// entry needs to release when it is itself destroyed.
type Releaser interface {
	Release()
}

// entryResource bundles an interned value with the strong references it
// transitively holds on its own dependencies (e.g. a pipeline holding its
// root signature and shaders alive).
type entryResource[T hal.Resource] struct {
	value T
	deps  []Releaser
}

func (e *entryResource[T]) Destroy() {
	e.value.Destroy()
	for _, d := range e.deps {
		d.Release()
	}
}

// Handle is a strong reference into a Table, analogous to
// dynresource.ResourceArc but unwrapping to the interned value directly.
type Handle[T hal.Resource] struct {
	arc dynresource.ResourceArc[*entryResource[T]]
}

// IsValid reports whether the handle wraps a live entry.
func (h Handle[T]) IsValid() bool { return h.arc.IsValid() }

// Get returns the interned resource.
func (h Handle[T]) Get() T { return h.arc.Get().value }

// Clone increments the reference count and returns a new handle to the
// same entry.
func (h Handle[T]) Clone() Handle[T] { return Handle[T]{arc: h.arc.Clone()} }

// Release decrements the reference count, scheduling destruction once it
// reaches zero and the retention window elapses.
func (h Handle[T]) Release() { h.arc.Release() }

// Stats reports diagnostic counters for a Table.
type Stats struct {
	// Live is the number of entries currently reachable (at least one
	// outstanding strong reference existed as of the last reclaim).
	Live int
	// Dead is the cumulative number of entries reclaimed because their
	// last strong reference had already gone away.
	Dead uint64
}

// Table interns resources of kind T keyed by Hash.
type Table[T hal.Resource] struct {
	mu        sync.Mutex
	manager   *dynresource.Manager[*entryResource[T]]
	allocator *dynresource.Allocator[*entryResource[T]]
	entries   map[Hash]dynresource.WeakResourceArc[*entryResource[T]]
	deadCount atomic.Uint64
}

// NewTable creates an interning table whose entries are retained for
// maxFramesInFlight frames after their last strong reference is released.
func NewTable[T hal.Resource](maxFramesInFlight uint32) *Table[T] {
	mgr := dynresource.NewManager[*entryResource[T]](maxFramesInFlight)
	return &Table[T]{
		manager:   mgr,
		allocator: mgr.CreateAllocator(),
		entries:   make(map[Hash]dynresource.WeakResourceArc[*entryResource[T]]),
	}
}

// GetOrCreate returns the existing entry for hash if one is still alive,
// otherwise calls create to build a new one. deps returned by create are
// released (in order) when the new entry is eventually destroyed, keeping
// any interned dependencies alive for exactly as long as this entry is.
func (t *Table[T]) GetOrCreate(hash Hash, create func() (T, []Releaser, error)) (Handle[T], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if weak, ok := t.entries[hash]; ok {
		if strong, ok := weak.Upgrade(); ok {
			return Handle[T]{arc: strong}, nil
		}
		delete(t.entries, hash)
		t.deadCount.Add(1)
	}

	value, deps, err := create()
	if err != nil {
		var zero Handle[T]
		return zero, err
	}

	arc := t.allocator.Insert(&entryResource[T]{value: value, deps: deps})
	t.entries[hash] = arc.Downgrade()
	return Handle[T]{arc: arc}, nil
}

// OnFrameComplete reclaims entries whose last strong reference has already
// gone away and advances the underlying retention ring by one frame.
func (t *Table[T]) OnFrameComplete() {
	t.mu.Lock()
	for hash, weak := range t.entries {
		strong, ok := weak.Upgrade()
		if !ok {
			delete(t.entries, hash)
			t.deadCount.Add(1)
			continue
		}
		strong.Release()
	}
	t.mu.Unlock()

	t.manager.OnFrameComplete()
}

// Stats snapshots the table's diagnostic counters.
func (t *Table[T]) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{Live: len(t.entries), Dead: t.deadCount.Load()}
}

// Destroy tears down the table's manager, destroying every entry
// regardless of reference count.
func (t *Table[T]) Destroy(logger *slog.Logger) {
	t.mu.Lock()
	t.entries = make(map[Hash]dynresource.WeakResourceArc[*entryResource[T]])
	t.mu.Unlock()

	t.manager.Destroy(logger)
}
