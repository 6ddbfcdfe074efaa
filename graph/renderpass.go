// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import "github.com/gogpu/forge/hal"

// subpassPlan is one raster node folded into a renderpassPlan, recording
// which attachment-list indices (shared by the whole renderpass) it reads
// or writes.
type subpassPlan struct {
	node    NodeID
	color   [maxColorAttachments]int // index into renderpassPlan.attachments, -1 if unused
	depth   int                      // -1 if unused
	resolve [maxColorAttachments]int // index into renderpassPlan.attachments, -1 if unused
}

// renderpassPlan is a group of adjacent raster nodes merged into one
// hal.Renderpass with one subpass per node, per §4.4.5.
type renderpassPlan struct {
	label           string
	queue           hal.QueueType
	attachments     []hal.AttachmentDescriptor
	attachmentUsage []ImageUsageID // parallel to attachments
	clears          []hal.ClearValue // parallel to attachments
	subpasses       []subpassPlan
}

// compiledPass is either a merged renderpass group or a single non-raster
// (compute/transfer/callback-only) node.
type compiledPass struct {
	raster *renderpassPlan
	node   NodeID
}

// buildRenderpasses walks the scheduled order and merges adjacent raster
// nodes that target the same set of physical attachment images on the same
// queue into one renderpassPlan, per §4.4.5. Nodes without attachments
// never merge and become their own callback-only compiledPass.
func buildRenderpasses(g *Graph, sched *scheduleResult, ar *aliasResult, images resolvedImages) []compiledPass {
	var out []compiledPass
	var current *renderpassPlan

	flush := func() {
		if current != nil {
			out = append(out, compiledPass{raster: current})
			current = nil
		}
	}

	for _, id := range sched.order {
		n := g.nodes[id]
		if !n.HasAttachments() {
			flush()
			out = append(out, compiledPass{node: id})
			continue
		}
		if current != nil && current.queue == n.Queue && sameAttachmentSet(g, ar, current, n) {
			current.subpasses = append(current.subpasses, buildSubpass(g, ar, images, current, n))
			continue
		}
		flush()
		current = &renderpassPlan{label: n.Name, queue: n.Queue}
		current.subpasses = append(current.subpasses, buildSubpass(g, ar, images, current, n))
	}
	flush()
	return out
}

func buildSubpass(g *Graph, ar *aliasResult, images resolvedImages, rp *renderpassPlan, n *Node) subpassPlan {
	sp := subpassPlan{node: n.ID, depth: -1}
	for i := range sp.color {
		sp.color[i] = -1
		sp.resolve[i] = -1
	}
	for i, c := range n.ColorAttachments {
		sp.color[i] = attachmentSlot(g, ar, images, rp, c, false)
	}
	sp.depth = attachmentSlot(g, ar, images, rp, n.DepthAttachment, true)
	for i, r := range n.ResolveAttachments {
		sp.resolve[i] = attachmentSlot(g, ar, images, rp, r, false)
	}
	return sp
}

// attachmentSlot returns the index of binding's physical image within rp's
// attachment list, appending a new AttachmentDescriptor and ClearValue on
// the slot's first appearance in this renderpass group.
func attachmentSlot(g *Graph, ar *aliasResult, images resolvedImages, rp *renderpassPlan, binding *AttachmentBinding, isDepth bool) int {
	if binding == nil {
		return -1
	}
	usage := g.imageUsage(binding.Usage)
	for i, u := range rp.attachmentUsage {
		if g.imageUsage(u).Virtual == usage.Virtual {
			return i
		}
	}
	spec := images[usage.Virtual]
	rp.attachments = append(rp.attachments, hal.AttachmentDescriptor{
		Format:      spec.Format,
		SampleCount: spec.SampleCount,
		LoadOp:      binding.LoadOp,
		StoreOp:     StoreOpStore,
		FinalState:  usage.Role.resourceState(),
	})
	rp.attachmentUsage = append(rp.attachmentUsage, binding.Usage)
	rp.clears = append(rp.clears, hal.ClearValue{
		Color:        binding.ClearColor,
		Depth:        binding.ClearDepth,
		Stencil:      binding.ClearStencil,
		IsDepthClear: isDepth,
	})
	return len(rp.attachments) - 1
}

// sameAttachmentSet reports whether n targets exactly the physical images
// already bound to current's attachment list, the condition under which
// the two raster nodes can share one renderpass as adjacent subpasses.
func sameAttachmentSet(g *Graph, ar *aliasResult, current *renderpassPlan, n *Node) bool {
	existing := make(map[PhysicalImageID]bool, len(current.attachmentUsage))
	for _, u := range current.attachmentUsage {
		existing[ar.imagePhysical[g.imageUsage(u).Virtual]] = true
	}
	want := make(map[PhysicalImageID]bool)
	collect := func(b *AttachmentBinding) {
		if b == nil {
			return
		}
		want[ar.imagePhysical[g.imageUsage(b.Usage).Virtual]] = true
	}
	for _, c := range n.ColorAttachments {
		collect(c)
	}
	collect(n.DepthAttachment)
	for _, r := range n.ResolveAttachments {
		collect(r)
	}
	if len(want) == 0 || len(want) != len(existing) {
		return false
	}
	for k := range want {
		if !existing[k] {
			return false
		}
	}
	return true
}
