// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frame

import "github.com/gogpu/forge/graph"

// Feature implements the extract phase for one kind of renderable data.
// Its five methods are the entry points Pipeline drives (through the
// adapter in adapt.go), in this order,
// per frame and per view:
//
//  1. BeginPerFrameExtract — once, before any instance is extracted.
//  2. ExtractRenderObjectInstance — once per render-object instance,
//     possibly concurrently across instances.
//  3. ExtractRenderObjectInstancePerView — once per render-object
//     instance visible from a given view, possibly concurrently across
//     instances within that view and across views.
//  4. EndPerViewExtract — once per view, after every instance visible
//     from that view has been extracted.
//  5. EndPerFrameExtract — once, after every view has finished.
//
// Implementations must not retain packet or view beyond the call:
// FramePacket/ViewPacket identity is only valid for the frame that
// produced them.
type Feature[F FeatureTypes] interface {
	Index() RenderFeatureIndex

	BeginPerFrameExtract(packet *FramePacket[F])
	ExtractRenderObjectInstance(packet *FramePacket[F], id RenderObjectInstanceID)
	ExtractRenderObjectInstancePerView(packet *FramePacket[F], view *ViewPacket[F], id RenderObjectInstanceID)
	EndPerViewExtract(packet *FramePacket[F], view *ViewPacket[F])
	EndPerFrameExtract(packet *FramePacket[F])
}

// SortKey orders SubmitNodes within a (view, phase) bucket. Lower sorts
// first. Features typically pack a coarse bucket (pipeline, material) into
// the high bits and a fine-grained key (depth, distance) into the low
// bits.
type SortKey uint64

// SubmitPhase groups SubmitNodes that must be written together, in a
// fixed relative order, within one view (opaque before transparent,
// transparent before UI, and so on). The concrete phase values and their
// relative order are owned by whatever assembles a Pipeline's render
// graph, not by this package.
type SubmitPhase int

// SubmitNode is one unit of prepared, sorted work a Writer will turn into
// HAL commands during render-graph execution.
type SubmitNode[S any] struct {
	View  ViewIndex
	Phase SubmitPhase
	Key   SortKey
	Data  S
}

// Preparer reads a settled FramePacket/ViewPacket pair — extract has
// already run to completion for both — and emits the SubmitNodes a
// feature contributes for that view. Prepare may run concurrently across
// views of the same frame, but only after every view's extract has ended.
type Preparer[F FeatureTypes, S any] interface {
	Prepare(packet *FramePacket[F], view *ViewPacket[F]) ([]SubmitNode[S], error)
}

// Writer issues the HAL commands for one SubmitNode during render-graph
// execution. Write runs on the graph's recording goroutine, in sorted
// order within each (view, phase) bucket; it must not be called
// concurrently with another Write for the same pass.
type Writer[S any] interface {
	Write(ctx *graph.PassContext, node SubmitNode[S]) error
}
