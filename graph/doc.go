// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package graph builds and executes a single frame's render graph: a
// declarative record of passes and the virtual images/buffers they create,
// read, modify, or copy, compiled into a linear schedule, a concrete
// physical-resource assignment (with aliasing across disjoint lifetimes), a
// set of merged HAL renderpasses, and a barrier plan.
//
// Building a graph goes through a Graph: AddNode declares a pass, and the
// returned *Node exposes CreateImage/ReadImage/ModifyImage/CopyImage (and
// the buffer equivalents) to declare its interactions. Each interaction
// carries a partially specified ImageConstraint/BufferConstraint; Compile
// propagates constraints across all usages of the same virtual resource
// until every one is fully specified, or fails with a diagnostic naming the
// conflicting usages.
//
// Compile then schedules nodes into a topological order, culls nodes whose
// outputs are not transitively live for an output-bound resource, greedily
// assigns physical images/buffers to virtual ones (reusing a physical
// resource across disjoint liveness ranges when specifications allow),
// merges adjacent compatible raster passes into subpasses of one
// hal.Renderpass, and plans the barriers required before and after each
// resulting pass group.
//
// The result is a *Plan. Plan.Execute(encoder) replays the plan against a
// hal.CommandEncoder: issuing barriers, beginning/ending renderpasses, and
// invoking each node's callback with a PassContext that resolves usage ids
// to the physical views/buffers the plan assigned.
package graph
