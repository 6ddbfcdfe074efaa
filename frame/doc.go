// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package frame drives the per-frame extract/prepare/write pipeline that
// gathers visible render-object instances across views and hands them to
// pluggable features.
//
// The original per-feature contract names five associated data kinds a
// feature defines: PerFrameData, RenderObjectInstanceData,
// RenderObjectInstancePerViewData, PerViewData, SubmitNodeData. Go has no
// associated types, so this package realizes that contract as a single
// type-parameterized interface, Feature[F FeatureTypes]: F is the
// feature's own data bundle, a struct the feature author defines once and
// reuses as the element type of both the per-instance and
// per-instance-per-view OnceCellArray slots FramePacket and ViewPacket
// hand out during extract. A feature whose per-instance and
// per-instance-per-view needs genuinely differ simply leaves the fields
// irrelevant to one context zero in the other; most features only fill
// one or the other anyway.
//
// FramePacket[F] and ViewPacket[F] store per-instance and
// per-instance-per-view data in a lock-free OnceCellArray[F], so extract
// can fan out across a worker pool (Pool) without synchronization beyond
// the set-once contract each slot enforces: ExtractRenderObjectInstance
// and ExtractRenderObjectInstancePerView run concurrently across object
// indices, while BeginPerFrameExtract, EndPerViewExtract, and
// EndPerFrameExtract each run once, serialized by the calling controller.
// PerFrameData and PerViewData are single values set once per frame/view
// rather than per-instance arrays, so they are carried behind
// FramePacket.SetPerFrameData/PerFrameData and
// ViewPacket.SetPerViewData/PerViewData as untyped values recovered with
// one type assertion, instead of forcing a third type parameter onto
// every helper in the package for data a feature typically just stashes
// and recovers once.
//
// Preparer[F, S] reads a settled FramePacket/ViewPacket pair and emits
// SubmitNode[S] values, sorted within each (view, phase) bucket by
// SortKey. Writer[S] consumes those nodes during render-graph execution,
// issuing HAL commands through a graph.PassContext. S is the feature's
// submit-node payload, independent of F since it flows through a
// different list at a different phase.
//
// Because each registered feature has its own F/S instantiation, Pipeline
// cannot hold a single generic slice of them: adapt.go type-erases a
// Feature/Preparer/Writer trio behind the non-generic FeatureRunner
// interface, the pattern this package uses wherever a heterogeneous
// collection of differently-instantiated generics is needed.
package frame
