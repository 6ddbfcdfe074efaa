// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import "fmt"

// aliasResult maps every live virtual resource onto a physical slot, plus
// the resolved specification each physical slot must be allocated with and
// a human-readable log of which virtual resources ended up sharing a slot.
type aliasResult struct {
	imagePhysical  map[VirtualImageID]PhysicalImageID
	bufferPhysical map[VirtualBufferID]PhysicalBufferID

	imageSpecs  []ImageSpecification
	bufferSpecs []BufferSpecification

	mergeLog []string
}

type liveRange struct {
	first, last int // positions in sched.order
}

type imageBucket struct {
	physical PhysicalImageID
	spec     ImageSpecification
	live     liveRange
}

type bufferBucket struct {
	physical PhysicalBufferID
	spec     BufferSpecification
	live     liveRange
}

// alias assigns physical images and buffers to every virtual resource that
// survived scheduling, greedily reusing a physical slot across virtual
// resources with disjoint liveness ranges per §4.4.3: sort by first use,
// assign the earliest bucket whose previous occupant's range has ended and
// whose specification is compatible, opening a new bucket otherwise.
// Output-bound resources are pinned to their externally supplied memory and
// are never aliased with anything else.
func alias(g *Graph, sched *scheduleResult, images resolvedImages, buffers resolvedBuffers) *aliasResult {
	res := &aliasResult{
		imagePhysical:  make(map[VirtualImageID]PhysicalImageID),
		bufferPhysical: make(map[VirtualBufferID]PhysicalBufferID),
	}

	pinnedImages := make(map[VirtualImageID]bool, len(g.outputImages))
	for _, out := range g.outputImages {
		pinnedImages[g.imageUsage(out.Usage).Virtual] = true
	}
	pinnedBuffers := make(map[VirtualBufferID]bool, len(g.outputBuffers))
	for _, out := range g.outputBuffers {
		pinnedBuffers[g.bufferUsage(out.Usage).Virtual] = true
	}

	imageRanges := computeImageLiveness(g, sched)
	bufferRanges := computeBufferLiveness(g, sched)

	order := sortVirtualImagesByFirstUse(imageRanges)
	var buckets []imageBucket
	for _, vid := range order {
		spec := images[vid]
		if pinnedImages[vid] {
			phys := PhysicalImageID(len(res.imageSpecs))
			res.imageSpecs = append(res.imageSpecs, spec)
			res.imagePhysical[vid] = phys
			continue
		}
		rng := imageRanges[vid]
		assigned := -1
		for b, bucket := range buckets {
			if bucket.live.last >= rng.first {
				continue
			}
			if !bucket.spec.CanMerge(spec) {
				continue
			}
			assigned = b
			break
		}
		if assigned < 0 {
			phys := PhysicalImageID(len(res.imageSpecs))
			res.imageSpecs = append(res.imageSpecs, spec)
			buckets = append(buckets, imageBucket{physical: phys, spec: spec, live: rng})
			res.imagePhysical[vid] = phys
			continue
		}
		merged := buckets[assigned].spec.Merged(spec)
		buckets[assigned].spec = merged
		if rng.last > buckets[assigned].live.last {
			buckets[assigned].live.last = rng.last
		}
		res.imageSpecs[buckets[assigned].physical] = merged
		res.imagePhysical[vid] = buckets[assigned].physical
		res.mergeLog = append(res.mergeLog, fmt.Sprintf(
			"image %q aliased into physical slot %d", g.images[vid].name, buckets[assigned].physical))
	}

	bufOrder := sortVirtualBuffersByFirstUse(bufferRanges)
	var bufBuckets []bufferBucket
	for _, vid := range bufOrder {
		spec := buffers[vid]
		if pinnedBuffers[vid] {
			phys := PhysicalBufferID(len(res.bufferSpecs))
			res.bufferSpecs = append(res.bufferSpecs, spec)
			res.bufferPhysical[vid] = phys
			continue
		}
		rng := bufferRanges[vid]
		assigned := -1
		for b, bucket := range bufBuckets {
			if bucket.live.last >= rng.first {
				continue
			}
			assigned = b
			break
		}
		if assigned < 0 {
			phys := PhysicalBufferID(len(res.bufferSpecs))
			res.bufferSpecs = append(res.bufferSpecs, spec)
			bufBuckets = append(bufBuckets, bufferBucket{physical: phys, spec: spec, live: rng})
			res.bufferPhysical[vid] = phys
			continue
		}
		merged := bufBuckets[assigned].spec.Merged(spec)
		bufBuckets[assigned].spec = merged
		if rng.last > bufBuckets[assigned].live.last {
			bufBuckets[assigned].live.last = rng.last
		}
		res.bufferSpecs[bufBuckets[assigned].physical] = merged
		res.bufferPhysical[vid] = bufBuckets[assigned].physical
		res.mergeLog = append(res.mergeLog, fmt.Sprintf(
			"buffer %q aliased into physical slot %d", g.buffers[vid].name, bufBuckets[assigned].physical))
	}

	return res
}

func computeImageLiveness(g *Graph, sched *scheduleResult) map[VirtualImageID]liveRange {
	ranges := make(map[VirtualImageID]liveRange)
	for _, u := range g.imageUsages {
		pos, ok := sched.index[u.Node]
		if !ok {
			continue
		}
		rng, seen := ranges[u.Virtual]
		if !seen {
			ranges[u.Virtual] = liveRange{first: pos, last: pos}
			continue
		}
		if pos < rng.first {
			rng.first = pos
		}
		if pos > rng.last {
			rng.last = pos
		}
		ranges[u.Virtual] = rng
	}
	return ranges
}

func computeBufferLiveness(g *Graph, sched *scheduleResult) map[VirtualBufferID]liveRange {
	ranges := make(map[VirtualBufferID]liveRange)
	for _, u := range g.bufferUsages {
		pos, ok := sched.index[u.Node]
		if !ok {
			continue
		}
		rng, seen := ranges[u.Virtual]
		if !seen {
			ranges[u.Virtual] = liveRange{first: pos, last: pos}
			continue
		}
		if pos < rng.first {
			rng.first = pos
		}
		if pos > rng.last {
			rng.last = pos
		}
		ranges[u.Virtual] = rng
	}
	return ranges
}

func sortVirtualImagesByFirstUse(ranges map[VirtualImageID]liveRange) []VirtualImageID {
	order := make([]VirtualImageID, 0, len(ranges))
	for vid := range ranges {
		order = append(order, vid)
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && ranges[order[j-1]].first > ranges[order[j]].first; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	return order
}

func sortVirtualBuffersByFirstUse(ranges map[VirtualBufferID]liveRange) []VirtualBufferID {
	order := make([]VirtualBufferID, 0, len(ranges))
	for vid := range ranges {
		order = append(order, vid)
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && ranges[order[j-1]].first > ranges[order[j]].first; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	return order
}
