// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package dynresource allocates reference-counted HAL resources whose
// lifetime is tied to how many command buffers still reference them rather
// than to content-addressed reuse.
//
// A ResourceArc[T] wraps a hal.Resource with an atomic reference count. When
// the last reference is released, the underlying resource is not destroyed
// immediately: it is handed to a Manager, which retains it for a fixed
// number of frames-in-flight before calling Destroy, so a resource that is
// still referenced by an in-flight command buffer on the GPU is never freed
// out from under it.
//
// This complements lookup.Table, which interns resources by content hash;
// dynresource is for resources created fresh every use (transient render
// targets, per-frame staging buffers) where interning would not help.
package dynresource
