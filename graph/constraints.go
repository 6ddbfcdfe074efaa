// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import "fmt"

// resolvedImages/resolvedBuffers hold one fully-specified specification per
// virtual resource, merged across every usage of every version of that
// resource. Aliasing operates at virtual-image granularity (§4.4.3), so one
// specification per VirtualImageID — rather than one per version — is both
// sufficient and what the later aliasing pass expects; this also lets a
// single merge pass reach the same fixed point the forward/backward
// per-version walk would, since every usage of a virtual image ultimately
// constrains the same allocation.
type resolvedImages map[VirtualImageID]ImageSpecification
type resolvedBuffers map[VirtualBufferID]BufferSpecification

func propagateImageConstraints(g *Graph) (resolvedImages, error) {
	merged := make([]ImageConstraint, len(g.images))
	for _, u := range g.imageUsages {
		cur := merged[u.Virtual]
		if !cur.TryMerge(u.Constraint) {
			return nil, &BuildError{Reason: fmt.Sprintf(
				"conflicting constraints on image %q (usage %d on node %d)",
				g.images[u.Virtual].name, u.ID, u.Node)}
		}
		merged[u.Virtual] = cur
	}

	out := make(resolvedImages, len(merged))
	for vid, c := range merged {
		spec, ok := c.ToSpecification()
		if !ok {
			return nil, &BuildError{Reason: fmt.Sprintf(
				"image %q never fully specified (missing format or extent)", g.images[vid].name)}
		}
		out[VirtualImageID(vid)] = spec
	}
	return out, nil
}

func propagateBufferConstraints(g *Graph) (resolvedBuffers, error) {
	merged := make([]BufferConstraint, len(g.buffers))
	for _, u := range g.bufferUsages {
		cur := merged[u.Virtual]
		if !cur.TryMerge(u.Constraint) {
			return nil, &BuildError{Reason: fmt.Sprintf(
				"conflicting constraints on buffer %q (usage %d on node %d)",
				g.buffers[u.Virtual].name, u.ID, u.Node)}
		}
		merged[u.Virtual] = cur
	}

	out := make(resolvedBuffers, len(merged))
	for vid, c := range merged {
		spec, ok := c.ToSpecification()
		if !ok {
			return nil, &BuildError{Reason: fmt.Sprintf(
				"buffer %q never fully specified (missing size)", g.buffers[vid].name)}
		}
		out[VirtualBufferID(vid)] = spec
	}
	return out, nil
}
