// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frame

import "sync/atomic"

// onceValue holds a single value set at most once, safe for concurrent Set
// attempts (only the first wins) and concurrent Get calls.
type onceValue struct {
	p atomic.Pointer[any]
}

// Set stores v if no value has been stored yet. It reports whether this
// call was the one that won the race.
func (c *onceValue) Set(v any) bool {
	return c.p.CompareAndSwap(nil, &v)
}

// Get returns the stored value and true, or the zero value and false if
// nothing has been set yet.
func (c *onceValue) Get() (any, bool) {
	p := c.p.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// OnceCellArray is a fixed-size array of lock-free, set-once slots. Many
// goroutines may call Set on disjoint indices concurrently; each slot may
// be written exactly once, after which every reader observes the same
// value. This is the concurrency primitive extract uses to fan
// ExtractRenderObjectInstance and ExtractRenderObjectInstancePerView out
// across a worker pool without a mutex.
type OnceCellArray[T any] struct {
	cells []atomic.Pointer[T]
}

// NewOnceCellArray allocates an array of n unset slots.
func NewOnceCellArray[T any](n int) *OnceCellArray[T] {
	return &OnceCellArray[T]{cells: make([]atomic.Pointer[T], n)}
}

// Len returns the number of slots.
func (a *OnceCellArray[T]) Len() int {
	return len(a.cells)
}

// Set stores v in slot i. It reports whether this call won the race to
// set that slot; a false return means the slot was already set and v was
// discarded. Set panics if i is out of range, the same as a slice index.
func (a *OnceCellArray[T]) Set(i int, v T) bool {
	return a.cells[i].CompareAndSwap(nil, &v)
}

// Get returns the value stored in slot i and true, or the zero value and
// false if the slot has not been set.
func (a *OnceCellArray[T]) Get(i int) (T, bool) {
	p := a.cells[i].Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// MustGet returns the value stored in slot i, or panics if the slot has
// not been set. Intended for use after extract has completed, when every
// slot a feature declared interest in is guaranteed settled.
func (a *OnceCellArray[T]) MustGet(i int) T {
	v, ok := a.Get(i)
	if !ok {
		panic("frame: OnceCellArray slot read before it was set")
	}
	return v
}
