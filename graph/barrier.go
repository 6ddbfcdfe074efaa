// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import "github.com/gogpu/forge/hal"

// imageTransition and bufferTransition describe one physical resource's
// state change, resolved from tracked state to the state a usage requires.
// They carry only the physical id and states; plan.go fills in the actual
// hal.Image/hal.Buffer and the (whole-resource) subresource range when
// turning these into hal.ImageBarrier/hal.BufferBarrier values.
type imageTransition struct {
	physical PhysicalImageID
	before   hal.ResourceState
	after    hal.ResourceState
}

type bufferTransition struct {
	physical PhysicalBufferID
	before   hal.ResourceState
	after    hal.ResourceState
}

// barrierPlan is the per-pass and end-of-graph barrier schedule produced by
// planBarriers, indexed in parallel with the compiledPass slice it was
// built from.
type barrierPlan struct {
	prePassImages  [][]imageTransition
	prePassBuffers [][]bufferTransition

	postImages  []imageTransition
	postBuffers []bufferTransition
}

// planBarriers walks the compiled pass list in execution order, tracking
// each physical resource's current hal.ResourceState and emitting a
// transition whenever a usage requires a different one, per §4.4.6. Every
// transient resource starts Undefined; a pinned output resource seeds from
// tracker's last-recorded state instead, if tracker is non-nil and has
// seen that resource before (see ResourceTracker). Output-bound resources
// get one final transition to their declared FinalState after the last
// pass that touches them, so the caller can present a swapchain image or
// hand a buffer back to the rest of the frame in the state it promised;
// that final state is also recorded back into tracker for the next frame.
func planBarriers(g *Graph, passes []compiledPass, ar *aliasResult, tracker *ResourceTracker) *barrierPlan {
	imgState := make(map[PhysicalImageID]hal.ResourceState, len(ar.imageSpecs))
	bufState := make(map[PhysicalBufferID]hal.ResourceState, len(ar.bufferSpecs))

	if tracker != nil {
		for _, out := range g.outputImages {
			phys := ar.imagePhysical[g.imageUsage(out.Usage).Virtual]
			imgState[phys] = tracker.ImageState(out.Image)
		}
		for _, out := range g.outputBuffers {
			phys := ar.bufferPhysical[g.bufferUsage(out.Usage).Virtual]
			bufState[phys] = tracker.BufferState(out.Buffer)
		}
	}

	plan := &barrierPlan{
		prePassImages:  make([][]imageTransition, len(passes)),
		prePassBuffers: make([][]bufferTransition, len(passes)),
	}

	for i, pass := range passes {
		for _, n := range passNodes(g, pass) {
			for _, u := range n.ImageUsages {
				phys := ar.imagePhysical[u.Virtual]
				want := u.Role.resourceState()
				cur := imgState[phys]
				if cur == want {
					continue
				}
				plan.prePassImages[i] = append(plan.prePassImages[i], imageTransition{physical: phys, before: cur, after: want})
				imgState[phys] = want
			}
			for _, u := range n.BufferUsages {
				phys := ar.bufferPhysical[u.Virtual]
				want := u.Role.resourceState()
				cur := bufState[phys]
				if cur == want {
					continue
				}
				plan.prePassBuffers[i] = append(plan.prePassBuffers[i], bufferTransition{physical: phys, before: cur, after: want})
				bufState[phys] = want
			}
		}
	}

	for _, out := range g.outputImages {
		phys := ar.imagePhysical[g.imageUsage(out.Usage).Virtual]
		if cur := imgState[phys]; cur != out.FinalState {
			plan.postImages = append(plan.postImages, imageTransition{physical: phys, before: cur, after: out.FinalState})
			imgState[phys] = out.FinalState
		}
		if tracker != nil {
			tracker.SetImageState(out.Image, out.FinalState)
		}
	}
	for _, out := range g.outputBuffers {
		phys := ar.bufferPhysical[g.bufferUsage(out.Usage).Virtual]
		if cur := bufState[phys]; cur != out.FinalState {
			plan.postBuffers = append(plan.postBuffers, bufferTransition{physical: phys, before: cur, after: out.FinalState})
			bufState[phys] = out.FinalState
		}
		if tracker != nil {
			tracker.SetBufferState(out.Buffer, out.FinalState)
		}
	}

	return plan
}

// passNodes returns every node folded into pass, in subpass order for a
// merged renderpass.
func passNodes(g *Graph, pass compiledPass) []*Node {
	if pass.raster == nil {
		return []*Node{g.nodes[pass.node]}
	}
	nodes := make([]*Node, len(pass.raster.subpasses))
	for i, sp := range pass.raster.subpasses {
		nodes[i] = g.nodes[sp.node]
	}
	return nodes
}
