// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import (
	"sync"

	"github.com/gogpu/forge/core/track"
	"github.com/gogpu/forge/hal"
)

// ResourceTracker remembers the hal.ResourceState each persistent,
// externally owned image or buffer was left in at the end of the Plan
// that last touched it. A fresh Graph's planBarriers otherwise assumes
// every physical resource starts Undefined; for a resource pinned via
// SetOutputImage/SetOutputBuffer and reused across frames (a swapchain
// image, a persistent G-buffer target), that assumption produces a
// barrier whose declared "before" state doesn't match the resource's
// true state left over from the previous frame. Passing the same
// ResourceTracker to every frame's Compile call closes that gap.
//
// Dense indices are assigned per resource kind via
// core/track.TrackerIndexAllocators the first time a resource is seen,
// one core/track.TrackingData per tracked resource managing that
// resource's index lifecycle the way the teacher embeds TrackingData in
// each of its own tracked resources. Forget* calls TrackingData.Release,
// so index reuse keeps the backing state slices from growing without
// bound across a long-running swapchain resize cycle.
type ResourceTracker struct {
	allocators *track.TrackerIndexAllocators

	mu          sync.Mutex
	imageData   map[hal.Image]*track.TrackingData
	bufferData  map[hal.Buffer]*track.TrackingData
	imageState  []hal.ResourceState
	bufferState []hal.ResourceState
}

// NewResourceTracker returns an empty tracker, ready to be shared across
// every Graph.Compile call for one queue's worth of persistent resources.
func NewResourceTracker() *ResourceTracker {
	return &ResourceTracker{
		allocators: track.NewTrackerIndexAllocators(),
		imageData:  make(map[hal.Image]*track.TrackingData),
		bufferData: make(map[hal.Buffer]*track.TrackingData),
	}
}

func growResourceStates(states []hal.ResourceState, idx track.TrackerIndex) []hal.ResourceState {
	for track.TrackerIndex(len(states)) <= idx {
		states = append(states, hal.ResourceStateUndefined)
	}
	return states
}

// ImageState returns the state img was last left in, or
// hal.ResourceStateUndefined if the tracker has never seen it.
func (t *ResourceTracker) ImageState(img hal.Image) hal.ResourceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.imageData[img]
	if !ok || int(data.Index()) >= len(t.imageState) {
		return hal.ResourceStateUndefined
	}
	return t.imageState[data.Index()]
}

// SetImageState records the state img was left in, assigning it a dense
// tracker index on first use.
func (t *ResourceTracker) SetImageState(img hal.Image, state hal.ResourceState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.imageData[img]
	if !ok {
		data = track.NewTrackingData(t.allocators.Images)
		t.imageData[img] = data
	}
	t.imageState = growResourceStates(t.imageState, data.Index())
	t.imageState[data.Index()] = state
}

// ForgetImage releases img's dense index. Call this once a persistent
// image (e.g. a resized swapchain's retired image) will never be
// referenced again, so its index can be reused.
func (t *ResourceTracker) ForgetImage(img hal.Image) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.imageData[img]
	if !ok {
		return
	}
	delete(t.imageData, img)
	t.imageState[data.Index()] = hal.ResourceStateUndefined
	data.Release()
}

// BufferState returns the state buf was last left in, or
// hal.ResourceStateUndefined if the tracker has never seen it.
func (t *ResourceTracker) BufferState(buf hal.Buffer) hal.ResourceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.bufferData[buf]
	if !ok || int(data.Index()) >= len(t.bufferState) {
		return hal.ResourceStateUndefined
	}
	return t.bufferState[data.Index()]
}

// SetBufferState records the state buf was left in, assigning it a dense
// tracker index on first use.
func (t *ResourceTracker) SetBufferState(buf hal.Buffer, state hal.ResourceState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.bufferData[buf]
	if !ok {
		data = track.NewTrackingData(t.allocators.Buffers)
		t.bufferData[buf] = data
	}
	t.bufferState = growResourceStates(t.bufferState, data.Index())
	t.bufferState[data.Index()] = state
}

// ForgetBuffer releases buf's dense index, mirroring ForgetImage.
func (t *ResourceTracker) ForgetBuffer(buf hal.Buffer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.bufferData[buf]
	if !ok {
		return
	}
	delete(t.bufferData, buf)
	t.bufferState[data.Index()] = hal.ResourceStateUndefined
	data.Release()
}
