// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph_test

import (
	"testing"

	"github.com/gogpu/forge/graph"
	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/types"
)

func TestResourceTracker_UnseenImageIsUndefined(t *testing.T) {
	tracker := graph.NewResourceTracker()
	device := openDevice(t)

	img, err := device.CreateImage(hal.ImageDescriptor{Extent: types.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1}})
	if err != nil {
		t.Fatalf("CreateImage failed: %v", err)
	}

	if got := tracker.ImageState(img); got != hal.ResourceStateUndefined {
		t.Errorf("ImageState for an unseen image = %v, want Undefined", got)
	}
}

func TestResourceTracker_SetThenGetRoundTrips(t *testing.T) {
	tracker := graph.NewResourceTracker()
	device := openDevice(t)

	img, err := device.CreateImage(hal.ImageDescriptor{Extent: types.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1}})
	if err != nil {
		t.Fatalf("CreateImage failed: %v", err)
	}

	tracker.SetImageState(img, hal.ResourceStatePresent)
	if got := tracker.ImageState(img); got != hal.ResourceStatePresent {
		t.Errorf("ImageState after SetImageState = %v, want Present", got)
	}

	buf, err := device.CreateBuffer(hal.BufferDescriptor{Size: 256, Usage: types.BufferUsageStorage})
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	tracker.SetBufferState(buf, hal.ResourceStateShaderResource)
	if got := tracker.BufferState(buf); got != hal.ResourceStateShaderResource {
		t.Errorf("BufferState after SetBufferState = %v, want ShaderResource", got)
	}
}

func TestResourceTracker_ForgetResetsToUndefinedAndFreesIndex(t *testing.T) {
	tracker := graph.NewResourceTracker()
	device := openDevice(t)

	img, err := device.CreateImage(hal.ImageDescriptor{Extent: types.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1}})
	if err != nil {
		t.Fatalf("CreateImage failed: %v", err)
	}

	tracker.SetImageState(img, hal.ResourceStatePresent)
	tracker.ForgetImage(img)

	if got := tracker.ImageState(img); got != hal.ResourceStateUndefined {
		t.Errorf("ImageState after ForgetImage = %v, want Undefined", got)
	}

	// A second, never-recorded image must report Undefined after the
	// forget; whether it reuses the freed dense index is not observed here.
	img2, err := device.CreateImage(hal.ImageDescriptor{Extent: types.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1}})
	if err != nil {
		t.Fatalf("CreateImage failed: %v", err)
	}
	if got := tracker.ImageState(img2); got != hal.ResourceStateUndefined {
		t.Errorf("ImageState for a fresh image after ForgetImage = %v, want Undefined", got)
	}
}

// TestGraph_CompileSeedsFromTrackerAcrossFrames builds two independent Graphs
// over the same pinned swapchain-like image, sharing one ResourceTracker.
// The second frame's pre-pass barrier must transition from the state the
// first frame left the image in (Present), not from Undefined.
func TestGraph_CompileSeedsFromTrackerAcrossFrames(t *testing.T) {
	device := openDevice(t)
	tracker := graph.NewResourceTracker()

	img, err := device.CreateImage(hal.ImageDescriptor{Extent: types.Extent3D{Width: 256, Height: 256, DepthOrArrayLayers: 1}})
	if err != nil {
		t.Fatalf("CreateImage failed: %v", err)
	}
	view, err := device.CreateImageView(hal.ImageViewDescriptor{Image: img})
	if err != nil {
		t.Fatalf("CreateImageView failed: %v", err)
	}

	runFrame := func() *graph.Plan {
		g := graph.New()
		n := g.AddNode("triangle", hal.QueueTypeGraphics)
		color := n.CreateImage("color-target", graph.ImageRoleColorAttachment, colorConstraint())
		n.SetColorAttachment(0, color, graph.LoadOpClear, graph.ColorClear{})
		n.SetCallback(func(ctx *graph.PassContext) error { return nil })
		g.SetOutputImage(color, img, view, hal.ResourceStatePresent)

		plan, err := g.Compile(device, tracker)
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		return plan
	}

	runFrame()
	if got := tracker.ImageState(img); got != hal.ResourceStatePresent {
		t.Fatalf("tracker state after first frame = %v, want Present", got)
	}

	// The second frame's Compile call seeds from tracker, so img is
	// already believed to be Present going in; since the pass also wants
	// it as a color attachment, a pre-pass barrier must still be planned,
	// but its "before" state must be Present, not Undefined. Execute
	// doesn't assert on exact states directly, so instead confirm via
	// Compile succeeding and the tracker still ending on Present.
	runFrame()
	if got := tracker.ImageState(img); got != hal.ResourceStatePresent {
		t.Fatalf("tracker state after second frame = %v, want Present", got)
	}
}
