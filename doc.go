// Package forge implements the resource-and-frame orchestration core of a
// multi-backend graphics framework: a render graph, a descriptor-set
// manager, a content-addressed resource interner, a reference-counted
// dynamic resource allocator, and a per-frame feature pipeline, all driven
// from a single process-level [Context].
//
// forge does not execute GPU commands itself. It records contracts — pass
// graphs, descriptor writes, barrier plans — that a [github.com/gogpu/forge/hal]
// backend replays. Raw backend bindings (Vulkan, Metal, DX12, GL) are
// treated as an opaque external collaborator; forge speaks only the narrow
// HAL vocabulary defined in the hal package.
//
// # Layout
//
//   - hal: the opaque hardware abstraction layer vocabulary, plus a
//     deterministic reference backend under hal/noop.
//   - dynresource: reference-counted wrappers around raw HAL handles with
//     deferred, frame-delayed destruction.
//   - lookup: content-addressed interning of immutable GPU resources.
//   - descriptorset: pooled, double-buffered descriptor set management.
//   - graph: the render graph builder and planner.
//   - frame: the per-frame feature pipeline (extract/prepare/write).
//   - upload: the boundary sketch for staged GPU uploads.
//
// # Global state
//
// forge holds no package-level mutable state. Every piece of orchestration
// state lives on a [Context] constructed explicitly by the caller and torn
// down deterministically via [Context.Close].
package forge
