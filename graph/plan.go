// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import (
	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/types"
)

// Plan is the compiled, ready-to-execute form of a Graph: physical
// resources are allocated, renderpasses and framebuffers are built, and
// the barrier schedule is resolved. A Plan executes exactly once; build a
// new Graph and Plan for the next frame.
type Plan struct {
	g     *Graph
	sched *scheduleResult
	ar    *aliasResult

	passes   []compiledPass
	barriers *barrierPlan

	images     []hal.Image
	imageViews []hal.ImageView
	buffers    []hal.Buffer

	renderpasses map[int]hal.Renderpass
	framebuffers map[int]hal.Framebuffer

	// MergeLog describes which virtual images/buffers ended up sharing a
	// physical allocation, for diagnostics.
	MergeLog []string
}

// PassContext is handed to a Node's callback. It exposes the command
// recorder appropriate to the node's kind (Render for a raster node inside
// a merged renderpass, Compute for a compute node, neither for a plain
// transfer/callback node operating directly against Encoder) plus accessors
// that resolve a usage id declared on the graph to its underlying HAL
// resource.
type PassContext struct {
	Encoder hal.CommandEncoder
	Render  hal.RenderCommands
	Compute hal.ComputeCommands

	plan *Plan
	node *Node
}

// Image resolves usage to the physical hal.Image backing it.
func (c *PassContext) Image(usage ImageUsageID) hal.Image {
	u := c.plan.g.imageUsage(usage)
	return c.plan.images[c.plan.ar.imagePhysical[u.Virtual]]
}

// ImageView resolves usage to the physical hal.ImageView backing it.
func (c *PassContext) ImageView(usage ImageUsageID) hal.ImageView {
	u := c.plan.g.imageUsage(usage)
	return c.plan.imageViews[c.plan.ar.imagePhysical[u.Virtual]]
}

// Buffer resolves usage to the physical hal.Buffer backing it.
func (c *PassContext) Buffer(usage BufferUsageID) hal.Buffer {
	u := c.plan.g.bufferUsage(usage)
	return c.plan.buffers[c.plan.ar.bufferPhysical[u.Virtual]]
}

// Compile runs the full pipeline over g: constraint propagation, scheduling
// and culling, physical aliasing, renderpass merging, barrier planning,
// and finally physical resource/renderpass/framebuffer allocation against
// device. The Plan it returns is ready for Execute.
//
// tracker, if non-nil, seeds barrier planning for every pinned output
// image/buffer from its last-recorded state instead of assuming Undefined,
// and records each one's FinalState back into tracker once planning
// finishes — letting a persistent resource's true state carry correctly
// from one frame's Plan to the next. Pass nil for a Graph with no pinned
// outputs that need to survive across frames.
func (g *Graph) Compile(device hal.Device, tracker *ResourceTracker) (*Plan, error) {
	images, err := propagateImageConstraints(g)
	if err != nil {
		return nil, err
	}
	buffers, err := propagateBufferConstraints(g)
	if err != nil {
		return nil, err
	}
	sched, err := schedule(g)
	if err != nil {
		return nil, err
	}
	ar := alias(g, sched, images, buffers)
	passes := buildRenderpasses(g, sched, ar, images)
	barriers := planBarriers(g, passes, ar, tracker)

	p := &Plan{
		g:            g,
		sched:        sched,
		ar:           ar,
		passes:       passes,
		barriers:     barriers,
		renderpasses: make(map[int]hal.Renderpass),
		framebuffers: make(map[int]hal.Framebuffer),
		MergeLog:     ar.mergeLog,
	}

	pinnedImages := make(map[PhysicalImageID]*OutputImage, len(g.outputImages))
	for i := range g.outputImages {
		out := &g.outputImages[i]
		pinnedImages[ar.imagePhysical[g.imageUsage(out.Usage).Virtual]] = out
	}
	pinnedBuffers := make(map[PhysicalBufferID]*OutputBuffer, len(g.outputBuffers))
	for i := range g.outputBuffers {
		out := &g.outputBuffers[i]
		pinnedBuffers[ar.bufferPhysical[g.bufferUsage(out.Usage).Virtual]] = out
	}

	p.images = make([]hal.Image, len(ar.imageSpecs))
	p.imageViews = make([]hal.ImageView, len(ar.imageSpecs))
	for phys, spec := range ar.imageSpecs {
		if pinned, ok := pinnedImages[PhysicalImageID(phys)]; ok {
			p.images[phys] = pinned.Image
			p.imageViews[phys] = pinned.View
			continue
		}
		img, err := device.CreateImage(hal.ImageDescriptor{
			Extent:        spec.Extent,
			MipLevelCount: spec.MipLevels,
			SampleCount:   spec.SampleCount,
			Dimension:     types.TextureDimension2D,
			Format:        spec.Format,
			Usage:         spec.Usage,
			Memory:        hal.MemoryUsageGPUOnly,
		})
		if err != nil {
			return nil, err
		}
		view, err := device.CreateImageView(hal.ImageViewDescriptor{
			Image:           img,
			Format:          spec.Format,
			Dimension:       types.TextureViewDimension2D,
			Aspect:          spec.Aspect.Resolve(),
			MipLevelCount:   spec.MipLevels,
			ArrayLayerCount: 1,
		})
		if err != nil {
			return nil, err
		}
		p.images[phys] = img
		p.imageViews[phys] = view
	}

	p.buffers = make([]hal.Buffer, len(ar.bufferSpecs))
	for phys, spec := range ar.bufferSpecs {
		if pinned, ok := pinnedBuffers[PhysicalBufferID(phys)]; ok {
			p.buffers[phys] = pinned.Buffer
			continue
		}
		buf, err := device.CreateBuffer(hal.BufferDescriptor{
			Size:   spec.Size,
			Usage:  spec.Usage,
			Memory: hal.MemoryUsageGPUOnly,
		})
		if err != nil {
			return nil, err
		}
		p.buffers[phys] = buf
	}

	for i, pass := range passes {
		if pass.raster == nil {
			continue
		}
		rp := pass.raster
		subpasses := make([]hal.SubpassDescriptor, len(rp.subpasses))
		for j, sp := range rp.subpasses {
			subpasses[j] = subpassDescriptor(sp)
		}
		renderpass, err := device.CreateRenderpass(hal.RenderpassDescriptor{
			Label:       rp.label,
			Attachments: rp.attachments,
			Subpasses:   subpasses,
		})
		if err != nil {
			return nil, err
		}
		views := make([]hal.ImageView, len(rp.attachmentUsage))
		var extent types.Extent3D
		for j, usageID := range rp.attachmentUsage {
			u := g.imageUsage(usageID)
			views[j] = p.imageViews[ar.imagePhysical[u.Virtual]]
			extent = images[u.Virtual].Extent
		}
		framebuffer, err := device.CreateFramebuffer(hal.FramebufferDescriptor{
			Label:      rp.label,
			Renderpass: renderpass,
			Views:      views,
			Extent:     extent,
		})
		if err != nil {
			return nil, err
		}
		p.renderpasses[i] = renderpass
		p.framebuffers[i] = framebuffer
	}

	return p, nil
}

func subpassDescriptor(sp subpassPlan) hal.SubpassDescriptor {
	var color []uint32
	for _, c := range sp.color {
		if c >= 0 {
			color = append(color, uint32(c))
		}
	}
	var depth *uint32
	if sp.depth >= 0 {
		d := uint32(sp.depth)
		depth = &d
	}
	return hal.SubpassDescriptor{ColorAttachments: color, DepthAttachment: depth}
}

// Execute replays the compiled plan against encoder: pre-pass barriers,
// each renderpass or callback-only node in scheduled order, and finally
// the barriers that bring every output-bound resource to its declared
// final state.
func (p *Plan) Execute(encoder hal.CommandEncoder) error {
	for i, pass := range p.passes {
		p.issueBarriers(encoder, i)

		if pass.raster != nil {
			if err := p.executeRenderpass(encoder, i, pass.raster); err != nil {
				return err
			}
			continue
		}

		n := p.g.nodes[pass.node]
		if n.Callback == nil {
			continue
		}
		ctx := &PassContext{Encoder: encoder, plan: p, node: n}
		if n.Queue == hal.QueueTypeCompute {
			ctx.Compute = encoder.BeginCompute()
			if err := n.Callback(ctx); err != nil {
				return err
			}
			ctx.Compute.End()
			continue
		}
		if err := n.Callback(ctx); err != nil {
			return err
		}
	}

	var imgBarriers []hal.ImageBarrier
	var bufBarriers []hal.BufferBarrier
	for _, t := range p.barriers.postImages {
		imgBarriers = append(imgBarriers, p.imageBarrier(t))
	}
	for _, t := range p.barriers.postBuffers {
		bufBarriers = append(bufBarriers, p.bufferBarrier(t))
	}
	if len(imgBarriers) > 0 || len(bufBarriers) > 0 {
		encoder.Barrier(imgBarriers, bufBarriers)
	}
	return nil
}

func (p *Plan) issueBarriers(encoder hal.CommandEncoder, pass int) {
	imgT := p.barriers.prePassImages[pass]
	bufT := p.barriers.prePassBuffers[pass]
	if len(imgT) == 0 && len(bufT) == 0 {
		return
	}
	imgBarriers := make([]hal.ImageBarrier, len(imgT))
	for i, t := range imgT {
		imgBarriers[i] = p.imageBarrier(t)
	}
	bufBarriers := make([]hal.BufferBarrier, len(bufT))
	for i, t := range bufT {
		bufBarriers[i] = p.bufferBarrier(t)
	}
	encoder.Barrier(imgBarriers, bufBarriers)
}

func (p *Plan) imageBarrier(t imageTransition) hal.ImageBarrier {
	return hal.ImageBarrier{
		Image:  p.images[t.physical],
		Range:  hal.ImageRange{Aspect: types.TextureAspectAll},
		Before: t.before,
		After:  t.after,
	}
}

func (p *Plan) bufferBarrier(t bufferTransition) hal.BufferBarrier {
	return hal.BufferBarrier{
		Buffer: p.buffers[t.physical],
		Before: t.before,
		After:  t.after,
	}
}

func (p *Plan) executeRenderpass(encoder hal.CommandEncoder, pass int, rp *renderpassPlan) error {
	render := encoder.BeginRenderpass(p.renderpasses[pass], p.framebuffers[pass], rp.clears)
	for i, sp := range rp.subpasses {
		if i > 0 {
			render.NextSubpass()
		}
		n := p.g.nodes[sp.node]
		if n.Callback == nil {
			continue
		}
		ctx := &PassContext{Encoder: encoder, Render: render, plan: p, node: n}
		if err := n.Callback(ctx); err != nil {
			render.End()
			return err
		}
	}
	render.End()
	return nil
}
