// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"sort"

	"github.com/gogpu/forge/graph"
)

// FeatureRunner is the type-erased boundary Pipeline drives. Each
// registered feature has its own FeatureTypes/submit-data instantiation,
// so Pipeline cannot hold a generic []Feature[F] slice; NewFeatureRunner
// wraps a Feature/Preparer/Writer trio behind this non-generic interface
// instead, keeping full type safety inside the adapter and erasing it
// only at the point a heterogeneous collection is unavoidable.
type FeatureRunner interface {
	Index() RenderFeatureIndex

	beginFrame(instances []RenderObjectInstance)
	extractInstances(pool *Pool)
	beginView(view *RenderView, instances []RenderObjectInstancePerView) int
	extractInstancesPerView(pool *Pool, viewSlot int)
	endView(viewSlot int)
	endFrame()
	prepareView(viewSlot int) error
	nodeCount(viewSlot int) int
	nodeSortKey(viewSlot, idx int) (SubmitPhase, SortKey)
	writeNode(ctx *graph.PassContext, viewSlot, idx int) error
}

type featureAdapter[F FeatureTypes, S any] struct {
	feature Feature[F]
	prepare Preparer[F, S]
	writer  Writer[S]

	packet *FramePacket[F]
	views  []*ViewPacket[F]
	nodes  [][]SubmitNode[S]
}

// NewFeatureRunner adapts a Feature together with its Preparer and Writer
// into a FeatureRunner a Pipeline can register. prepare and writer may be
// nil for a feature that only contributes extracted data for other
// features to read (no submit nodes of its own).
func NewFeatureRunner[F FeatureTypes, S any](feature Feature[F], prepare Preparer[F, S], writer Writer[S]) FeatureRunner {
	return &featureAdapter[F, S]{feature: feature, prepare: prepare, writer: writer}
}

func (a *featureAdapter[F, S]) Index() RenderFeatureIndex {
	return a.feature.Index()
}

func (a *featureAdapter[F, S]) beginFrame(instances []RenderObjectInstance) {
	a.packet = NewFramePacket[F](a.feature.Index(), instances)
	a.views = nil
	a.nodes = nil
	a.feature.BeginPerFrameExtract(a.packet)
}

func (a *featureAdapter[F, S]) extractInstances(pool *Pool) {
	pool.Run(len(a.packet.RenderObjectInstances), func(i int) {
		a.feature.ExtractRenderObjectInstance(a.packet, RenderObjectInstanceID(i))
	})
}

func (a *featureAdapter[F, S]) beginView(view *RenderView, instances []RenderObjectInstancePerView) int {
	vp := a.packet.AddView(view, instances)
	a.views = append(a.views, vp)
	return len(a.views) - 1
}

func (a *featureAdapter[F, S]) extractInstancesPerView(pool *Pool, viewSlot int) {
	vp := a.views[viewSlot]
	pool.Run(len(vp.RenderObjectInstances), func(i int) {
		a.feature.ExtractRenderObjectInstancePerView(a.packet, vp, RenderObjectInstanceID(i))
	})
}

func (a *featureAdapter[F, S]) endView(viewSlot int) {
	a.feature.EndPerViewExtract(a.packet, a.views[viewSlot])
}

func (a *featureAdapter[F, S]) endFrame() {
	a.feature.EndPerFrameExtract(a.packet)
}

func (a *featureAdapter[F, S]) prepareView(viewSlot int) error {
	if a.nodes == nil {
		a.nodes = make([][]SubmitNode[S], len(a.views))
	}
	for len(a.nodes) <= viewSlot {
		a.nodes = append(a.nodes, nil)
	}
	if a.prepare == nil {
		return nil
	}
	nodes, err := a.prepare.Prepare(a.packet, a.views[viewSlot])
	if err != nil {
		return err
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Phase != nodes[j].Phase {
			return nodes[i].Phase < nodes[j].Phase
		}
		return nodes[i].Key < nodes[j].Key
	})
	a.nodes[viewSlot] = nodes
	return nil
}

func (a *featureAdapter[F, S]) nodeCount(viewSlot int) int {
	if viewSlot >= len(a.nodes) {
		return 0
	}
	return len(a.nodes[viewSlot])
}

func (a *featureAdapter[F, S]) nodeSortKey(viewSlot, idx int) (SubmitPhase, SortKey) {
	n := a.nodes[viewSlot][idx]
	return n.Phase, n.Key
}

func (a *featureAdapter[F, S]) writeNode(ctx *graph.PassContext, viewSlot, idx int) error {
	if a.writer == nil {
		return nil
	}
	return a.writer.Write(ctx, a.nodes[viewSlot][idx])
}
