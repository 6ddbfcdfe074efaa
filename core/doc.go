// Package core provides identity infrastructure for GPU resources sitting
// above the hardware abstraction layer.
//
// This package implements the layer between the user-facing orchestration
// packages (graph, descriptorset, dynresource, frame) and the HAL. It
// handles:
//
//   - Type-safe resource identifiers (ID system)
//   - Generational index allocation (IdentityManager)
//
// The error taxonomy lives in the root forge package, not here.
//
// Architecture:
//
//	types/  → Data structures (no logic)
//	hal/    → Hardware abstraction layer
//	core/   → Identity (this package)
//
// ID System:
//
// Resources are identified by type-safe IDs that combine an index and epoch:
//
//	type ImageID = ID[imageMarker]
//	id := NewID[imageMarker](index, epoch)
//	index, epoch := id.Unzip()
//
// The epoch prevents use-after-free bugs by invalidating old IDs when
// resources are recycled.
//
// IdentityManager Pattern:
//
// Dense, recyclable index allocation for a single marker type is handed
// out by an IdentityManager:
//
//	ids := NewDescriptorSetIdentityManager()
//	id := ids.Alloc()
//	ids.Release(id)
//
// Callers that also need per-entry lifetime management beyond index
// allocation (reference counting, multi-frame deferred destruction) build
// their own bookkeeping on top of hal.Resource directly; see lookup.Table
// and dynresource.Manager.
//
// Thread Safety:
//
// All types in this package are safe for concurrent use unless
// explicitly documented otherwise.
package core
