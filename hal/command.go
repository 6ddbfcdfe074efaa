// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hal

import "github.com/gogpu/forge/types"

// ResourceState is the closed enumeration of states a resource can be
// transitioned between via a barrier. Unlike a WebGPU-shaped HAL's
// orthogonal usage bitset, the state a resource is in is always exactly
// one of these values at any point in a command buffer's execution.
type ResourceState uint8

const (
	// ResourceStateUndefined is the implicit state of a graph-internal
	// resource before its first use in a frame.
	ResourceStateUndefined ResourceState = iota
	// ResourceStateShaderResource is read-only sampled/texture access.
	ResourceStateShaderResource
	// ResourceStateColorAttachment is a renderpass color attachment.
	ResourceStateColorAttachment
	// ResourceStateDepthStencil is a renderpass depth/stencil attachment.
	ResourceStateDepthStencil
	// ResourceStateCopySrc is the source of a copy command.
	ResourceStateCopySrc
	// ResourceStateCopyDst is the destination of a copy command.
	ResourceStateCopyDst
	// ResourceStatePresent is the state a swapchain image must be in before
	// Swapchain.Present.
	ResourceStatePresent
	// ResourceStateVertexBuffer is bound as a vertex buffer.
	ResourceStateVertexBuffer
	// ResourceStateIndexBuffer is bound as an index buffer.
	ResourceStateIndexBuffer
	// ResourceStateUniformBuffer is bound as a uniform/constant buffer.
	ResourceStateUniformBuffer
	// ResourceStateStorage is bound as a read-write storage resource.
	ResourceStateStorage
	// ResourceStateIndirectArgument is the source of an indirect draw or
	// dispatch command.
	ResourceStateIndirectArgument
)

// String returns a human-readable state name, used in barrier diagnostics.
func (s ResourceState) String() string {
	switch s {
	case ResourceStateUndefined:
		return "undefined"
	case ResourceStateShaderResource:
		return "shader-resource"
	case ResourceStateColorAttachment:
		return "color-attachment"
	case ResourceStateDepthStencil:
		return "depth-stencil"
	case ResourceStateCopySrc:
		return "copy-src"
	case ResourceStateCopyDst:
		return "copy-dst"
	case ResourceStatePresent:
		return "present"
	case ResourceStateVertexBuffer:
		return "vertex-buffer"
	case ResourceStateIndexBuffer:
		return "index-buffer"
	case ResourceStateUniformBuffer:
		return "uniform"
	case ResourceStateStorage:
		return "storage"
	case ResourceStateIndirectArgument:
		return "indirect"
	default:
		return "unknown"
	}
}

// QueueFamilyTransferMode describes whether a barrier also performs a
// queue-family ownership transfer.
type QueueFamilyTransferMode uint8

const (
	// QueueFamilyTransferNone performs no ownership transfer.
	QueueFamilyTransferNone QueueFamilyTransferMode = iota
	// QueueFamilyTransferReleaseTo releases ownership to another queue
	// type; paired with an AcquireFrom barrier on that queue.
	QueueFamilyTransferReleaseTo
	// QueueFamilyTransferAcquireFrom acquires ownership released by
	// another queue type.
	QueueFamilyTransferAcquireFrom
)

// QueueType identifies a class of hardware queue.
type QueueType uint8

const (
	QueueTypeGraphics QueueType = iota
	QueueTypeCompute
	QueueTypeTransfer
)

// QueueFamilyTransfer describes an optional ownership transfer accompanying
// a barrier.
type QueueFamilyTransfer struct {
	Mode  QueueFamilyTransferMode
	Queue QueueType // meaningful only when Mode != QueueFamilyTransferNone
}

// ImageRange specifies a subresource range of an Image a barrier applies to.
type ImageRange struct {
	Aspect         types.TextureAspect
	BaseMipLevel   uint32
	MipLevelCount  uint32 // 0 means all remaining levels
	BaseArrayLayer uint32
	ArrayLayerCount uint32 // 0 means all remaining layers
}

// ImageBarrier transitions an Image from one ResourceState to another.
type ImageBarrier struct {
	Image    Image
	Range    ImageRange
	Before   ResourceState
	After    ResourceState
	Transfer QueueFamilyTransfer
}

// BufferBarrier transitions a Buffer from one ResourceState to another.
type BufferBarrier struct {
	Buffer   Buffer
	Offset   uint64
	Size     uint64 // 0 means the whole buffer
	Before   ResourceState
	After    ResourceState
	Transfer QueueFamilyTransfer
}

// BufferCopy describes a buffer-to-buffer copy region.
type BufferCopy struct {
	SrcOffset uint64
	DstOffset uint64
	Size      uint64
}

// BufferImageCopy describes a copy region between a buffer and an image.
type BufferImageCopy struct {
	BufferOffset       uint64
	BufferBytesPerRow  uint32
	BufferRowsPerImage uint32
	ImageAspect        types.TextureAspect
	ImageMipLevel      uint32
	ImageOrigin        types.Origin3D
	ImageExtent        types.Extent3D
}

// ImageCopy describes an image-to-image copy region.
type ImageCopy struct {
	SrcAspect types.TextureAspect
	SrcMip    uint32
	SrcOrigin types.Origin3D
	DstAspect types.TextureAspect
	DstMip    uint32
	DstOrigin types.Origin3D
	Extent    types.Extent3D
}

// ClearValue is a tagged union of the two kinds of renderpass clear values.
type ClearValue struct {
	Color        types.Color
	Depth        float32
	Stencil      uint32
	IsDepthClear bool // selects Depth/Stencil over Color
}

// CommandEncoder records the fixed HAL command vocabulary into a
// CommandBuffer. Encoders are single-use: after EndEncoding they must not be
// reused.
type CommandEncoder interface {
	BeginEncoding(label string) error
	EndEncoding() (CommandBuffer, error)
	DiscardEncoding()

	// Barrier issues a pipeline barrier covering zero or more image and
	// buffer transitions.
	Barrier(images []ImageBarrier, buffers []BufferBarrier)

	BindPipeline(pipeline Pipeline)
	BindVertexBuffer(slot uint32, buffer Buffer, offset uint64)
	BindIndexBuffer(buffer Buffer, offset uint64, format types.IndexFormat)
	// BindDescriptorSets binds a run of consecutive descriptor sets
	// starting at firstSet, with dynamicOffsets applied to any bindings
	// declared with a dynamic offset.
	BindDescriptorSets(root RootSignature, firstSet uint32, sets []DescriptorSetArray, setIndices []uint32, dynamicOffsets []uint32)

	CopyBufferToBuffer(src, dst Buffer, regions []BufferCopy)
	CopyBufferToImage(src Buffer, dst Image, regions []BufferImageCopy)
	CopyImageToBuffer(src Image, dst Buffer, regions []BufferImageCopy)
	CopyImageToImage(src, dst Image, regions []ImageCopy)

	BeginRenderpass(pass Renderpass, fb Framebuffer, clears []ClearValue) RenderCommands
	BeginCompute() ComputeCommands
}

// RenderCommands records draw calls within one renderpass instance.
type RenderCommands interface {
	End()

	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	SetScissor(x, y, width, height uint32)

	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	DrawIndirect(buffer Buffer, offset uint64, drawCount, stride uint32)
	DrawIndexedIndirect(buffer Buffer, offset uint64, drawCount, stride uint32)

	// NextSubpass advances to the next merged subpass, if the bound
	// Renderpass declares more than one.
	NextSubpass()
}

// ComputeCommands records dispatches within one compute pass.
type ComputeCommands interface {
	End()

	Dispatch(x, y, z uint32)
	DispatchIndirect(buffer Buffer, offset uint64)
}
