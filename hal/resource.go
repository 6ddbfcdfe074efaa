// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hal

// Resource is the base interface implemented by every opaque handle the HAL
// hands back to the core. Resources must be explicitly destroyed; the HAL
// itself never destroys a resource behind the caller's back.
type Resource interface {
	// Destroy releases the underlying GPU object. After Destroy, the
	// resource must not be used again. Calling Destroy twice is undefined
	// behavior — callers are expected to go through dynresource or lookup,
	// which both guarantee a resource is destroyed exactly once.
	Destroy()
}

// Buffer is an opaque GPU buffer handle.
type Buffer interface {
	Resource
}

// Image is an opaque GPU image (texture) handle.
type Image interface {
	Resource
}

// ImageView is an opaque view into an Image.
type ImageView interface {
	Resource
}

// Sampler is an opaque texture sampler handle.
type Sampler interface {
	Resource
}

// Shader is an opaque compiled shader module.
type Shader interface {
	Resource
}

// RootSignature is an opaque handle bundling the descriptor-set layouts and
// push-constant ranges a Pipeline is built against. It plays the role
// PipelineLayout plays in WebGPU-shaped HALs.
type RootSignature interface {
	Resource
}

// PipelineKind distinguishes the two Pipeline flavors the HAL supports.
type PipelineKind uint8

const (
	// PipelineKindGraphics is a graphics (raster) pipeline.
	PipelineKindGraphics PipelineKind = iota
	// PipelineKindCompute is a compute pipeline.
	PipelineKindCompute
)

// Pipeline is an opaque graphics or compute pipeline handle.
type Pipeline interface {
	Resource

	// Kind reports whether this is a graphics or compute pipeline.
	Kind() PipelineKind
}

// Renderpass is an opaque HAL renderpass object describing a set of
// attachments and the subpasses that read/write them.
type Renderpass interface {
	Resource
}

// Framebuffer is an opaque HAL framebuffer: a renderpass bound to concrete
// image views.
type Framebuffer interface {
	Resource
}

// DescriptorSetLayout is an opaque handle for an interned binding layout.
type DescriptorSetLayout interface {
	Resource
}

// DescriptorSetArray is an opaque HAL object backing one chunk's worth of
// physical descriptor sets (chunk size × (frames-in-flight + 1) slots).
type DescriptorSetArray interface {
	Resource

	// Len reports the total number of physical descriptor sets in the
	// array (the Count it was created with).
	Len() int
}

// CommandBuffer holds recorded GPU commands, ready for submission.
type CommandBuffer interface {
	Resource
}

// Semaphore is a GPU-GPU synchronization primitive used for queue ordering
// (e.g. swapchain acquire/present, queue-family ownership transfer).
type Semaphore interface {
	Resource
}

// Fence is a GPU-CPU synchronization primitive.
type Fence interface {
	Resource
}

// Swapchain is an opaque presentation target bound to a platform window.
type Swapchain interface {
	Resource

	// AcquireImage acquires the next presentable image, signaling ready on
	// the given semaphore once the image is available for rendering.
	AcquireImage(ready Semaphore) (SwapchainImage, error)

	// Present presents img, waiting on the given semaphore before the
	// presentation engine reads the image.
	Present(img SwapchainImage, wait Semaphore) error
}

// SwapchainImage is an Image acquired from a Swapchain, bundled with the
// index identifying its slot.
type SwapchainImage struct {
	Image Image
	View  ImageView
	Index uint32
}
