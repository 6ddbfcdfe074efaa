// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package lookup interns immutable HAL resources (shader modules, root
// signatures, renderpasses, pipelines, image views, framebuffers, samplers)
// keyed by the content hash of their creation descriptor. Two callers that
// request a resource built from an identical descriptor receive handles to
// the exact same underlying resource.
//
// A Table holds only a weak reference to each entry: the resource's actual
// lifetime is governed by its callers' strong references, the same as any
// dynresource.ResourceArc. Table.OnFrameComplete reclaims map entries whose
// last strong reference has already gone away, and forwards to the
// underlying dynresource.Manager so the resource itself is destroyed after
// the configured number of frames-in-flight.
//
// Resources that depend on other interned resources (a pipeline depends on
// its root signature and shader modules) pass those dependencies' handles
// as deps to GetOrCreate; the table releases them automatically when the
// owning entry is destroyed, keeping the dependency chain alive for exactly
// as long as the dependent is alive.
package lookup
