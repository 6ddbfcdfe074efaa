// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"sort"

	"github.com/gogpu/forge/graph"
)

// ViewInstances is the per-feature visibility result for one view: which
// of that feature's frame-wide render-object instances are visible from
// it. Supplied by the caller (visibility culling lives outside this
// package) when opening a view with Pipeline.BeginView.
type ViewInstances struct {
	Feature   RenderFeatureIndex
	Instances []RenderObjectInstancePerView
}

// Pipeline drives the six-step per-frame sequence across every registered
// feature: frame-packet allocation, extract, prepare, and the bookkeeping
// a caller needs to then build and execute a render graph and finalize
// the frame. Visibility determination itself — which objects and which
// per-view instances exist at all — happens before BeginFrame/BeginView
// are called; Pipeline only owns what happens once that set is known.
type Pipeline struct {
	pool     *Pool
	runners  []FeatureRunner
	byIndex  map[RenderFeatureIndex]int
	numViews int
}

// NewPipeline creates a Pipeline whose extract fan-out runs across pool.
func NewPipeline(pool *Pool) *Pipeline {
	return &Pipeline{pool: pool, byIndex: make(map[RenderFeatureIndex]int)}
}

// Register adds a feature to the pipeline. Features must be registered
// before the first BeginFrame; registration order is stable across
// frames and determines nothing about submit ordering, which is governed
// entirely by SubmitNode.Phase/Key.
func (p *Pipeline) Register(runner FeatureRunner) {
	p.byIndex[runner.Index()] = len(p.runners)
	p.runners = append(p.runners, runner)
}

// BeginFrame allocates a FramePacket for every registered feature and
// runs BeginPerFrameExtract, then fans ExtractRenderObjectInstance out
// across the worker pool for every feature that was given instances.
// instances maps a feature to the render-object instances visible to it
// this frame; a feature absent from the map gets an empty packet.
func (p *Pipeline) BeginFrame(instances map[RenderFeatureIndex][]RenderObjectInstance) {
	p.numViews = 0
	for _, r := range p.runners {
		r.beginFrame(instances[r.Index()])
	}
	for _, r := range p.runners {
		r.extractInstances(p.pool)
	}
}

// BeginView opens a new view across every registered feature and fans
// ExtractRenderObjectInstancePerView out for each. perFeature supplies
// the visible-instance list per feature; a feature absent from it gets
// an empty view packet. BeginView returns the view slot used by EndView,
// Prepare, and Write for this view.
func (p *Pipeline) BeginView(view *RenderView, perFeature []ViewInstances) int {
	byFeature := make(map[RenderFeatureIndex][]RenderObjectInstancePerView, len(perFeature))
	for _, vi := range perFeature {
		byFeature[vi.Feature] = vi.Instances
	}
	slot := p.numViews
	p.numViews++
	for _, r := range p.runners {
		r.beginView(view, byFeature[r.Index()])
	}
	for _, r := range p.runners {
		r.extractInstancesPerView(p.pool, slot)
	}
	return slot
}

// EndView runs EndPerViewExtract across every feature for the given view
// slot. Call once all of a view's ExtractRenderObjectInstancePerView work
// (started by BeginView) has settled — BeginView already waited for it,
// so EndView may be called immediately after.
func (p *Pipeline) EndView(slot int) {
	for _, r := range p.runners {
		r.endView(slot)
	}
}

// EndFrame runs EndPerFrameExtract across every feature, closing out the
// extract phase for every view opened this frame.
func (p *Pipeline) EndFrame() {
	for _, r := range p.runners {
		r.endFrame()
	}
}

// Prepare runs every feature's Preparer for the given view slot,
// collecting and sorting SubmitNodes. Call after EndFrame.
func (p *Pipeline) Prepare(slot int) error {
	for _, r := range p.runners {
		if err := r.prepareView(slot); err != nil {
			return fmt.Errorf("frame: feature %d prepare view %d: %w", r.Index(), slot, err)
		}
	}
	return nil
}

// submitRef locates one feature's SubmitNode within the merged write
// order for a view.
type submitRef struct {
	runner int
	node   int
	phase  SubmitPhase
	key    SortKey
}

// Write replays every feature's prepared SubmitNodes for the given view
// slot in a single sort-key order merged across features, within each
// (view, phase) bucket. ctx must belong to the render-graph node
// currently executing the pass this view's output is written into.
func (p *Pipeline) Write(ctx *graph.PassContext, slot int) error {
	var refs []submitRef
	for ri, r := range p.runners {
		n := r.nodeCount(slot)
		for ni := 0; ni < n; ni++ {
			phase, key := r.nodeSortKey(slot, ni)
			refs = append(refs, submitRef{runner: ri, node: ni, phase: phase, key: key})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].phase != refs[j].phase {
			return refs[i].phase < refs[j].phase
		}
		return refs[i].key < refs[j].key
	})
	for _, ref := range refs {
		if err := p.runners[ref.runner].writeNode(ctx, slot, ref.node); err != nil {
			return fmt.Errorf("frame: feature %d write view %d node %d: %w", p.runners[ref.runner].Index(), slot, ref.node, err)
		}
	}
	return nil
}
