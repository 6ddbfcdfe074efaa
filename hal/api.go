// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hal

import "github.com/gogpu/forge/types"

// Backend identifies one HAL implementation and constructs Instances for it.
// Backends are registered globally via RegisterBackend.
type Backend interface {
	// Variant reports which backend this is.
	Variant() types.Backend

	// CreateInstance constructs a new Instance for this backend.
	CreateInstance(desc types.InstanceDescriptor) (Instance, error)
}

// Instance is the entry point into one backend: it enumerates adapters.
// Swapchains are created by Device.CreateSwapchain.
type Instance interface {
	// EnumerateAdapters lists the physical adapters this backend can see.
	EnumerateAdapters() ([]Adapter, error)

	Destroy()
}

// AdapterInfo describes a physical adapter for diagnostics and selection.
type AdapterInfo struct {
	Name       string
	DriverInfo string
	VendorID   uint32
	DeviceID   uint32
	IsSoftware bool
}

// Adapter represents one physical (or software) GPU. Opening an Adapter
// yields a Device and the queues opened alongside it.
type Adapter interface {
	Info() AdapterInfo

	// Open creates a logical Device and its queues.
	Open() (OpenDevice, error)

	Destroy()
}

// OpenDevice bundles a Device with the queues opened alongside it.
type OpenDevice struct {
	Device Device
	Queues map[QueueType]Queue
}

// MemoryUsage classifies where a resource's backing memory should live,
// independent of any specific backend's heap/memory-type vocabulary.
type MemoryUsage uint8

const (
	// MemoryUsageGPUOnly is device-local memory with no CPU access.
	MemoryUsageGPUOnly MemoryUsage = iota
	// MemoryUsageCPUOnly is host-visible memory, used for staging.
	MemoryUsageCPUOnly
	// MemoryUsageCPUToGPU is host-visible, device-preferring memory for
	// frequently-updated resources such as per-frame uniform buffers.
	MemoryUsageCPUToGPU
	// MemoryUsageGPUToCPU is host-visible memory optimized for readback.
	MemoryUsageGPUToCPU
)

// BufferDescriptor describes a Buffer to create.
type BufferDescriptor struct {
	Label  string
	Size   uint64
	Usage  types.BufferUsage
	Memory MemoryUsage
}

// ImageDescriptor describes an Image to create.
type ImageDescriptor struct {
	Label         string
	Extent        types.Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     types.TextureDimension
	Format        types.TextureFormat
	Usage         types.TextureUsage
	Memory        MemoryUsage
}

// ImageViewDescriptor describes an ImageView to create.
type ImageViewDescriptor struct {
	Label           string
	Image           Image
	Format          types.TextureFormat
	Dimension       types.TextureViewDimension
	Aspect          types.TextureAspect
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}

// SamplerDescriptor describes a Sampler to create.
type SamplerDescriptor struct {
	Label         string
	MinFilterLinear bool
	MagFilterLinear bool
	MipmapLinear    bool
	AddressModeU  uint8
	AddressModeV  uint8
	AddressModeW  uint8
	MaxAnisotropy uint16
	CompareOp     *uint8 // nil means no comparison sampler
}

// ShaderDescriptor describes a Shader to create. Code holds the backend's
// native shader representation; a lookup.ShaderPackage selects the right
// blob for the active backend before constructing this descriptor.
type ShaderDescriptor struct {
	Label      string
	Stage      types.ShaderStage
	EntryPoint string
	Code       []byte
}

// DescriptorBindingType enumerates the kinds of resource a descriptor set
// binding slot can hold.
type DescriptorBindingType uint8

const (
	DescriptorBindingSampler DescriptorBindingType = iota
	DescriptorBindingSampledImage
	DescriptorBindingStorageImage
	DescriptorBindingUniformBuffer
	DescriptorBindingUniformBufferDynamic
	DescriptorBindingStorageBuffer
	DescriptorBindingStorageBufferDynamic
)

// DescriptorBinding describes one binding slot in a DescriptorSetLayout.
type DescriptorBinding struct {
	Index      uint32
	Type       DescriptorBindingType
	Count      uint32 // array size, 1 for a scalar binding
	Visibility types.ShaderStages

	// InternalBufferSize opts a uniform/storage binding into the
	// descriptor-set manager's internal buffer: instead of binding an
	// externally supplied Buffer, the manager allocates this many bytes
	// per descriptor (per frame-in-flight slot) and the caller writes
	// directly into that range. Zero means the binding expects an
	// external Buffer reference instead.
	InternalBufferSize uint32
}

// DescriptorSetLayoutDescriptor describes a DescriptorSetLayout to create.
type DescriptorSetLayoutDescriptor struct {
	Label    string
	Bindings []DescriptorBinding
}

// RootSignatureDescriptor describes a RootSignature to create.
type RootSignatureDescriptor struct {
	Label              string
	SetLayouts         []DescriptorSetLayout
	PushConstantRanges []types.PushConstantRange
}

// DescriptorSetArrayDescriptor describes a DescriptorSetArray to create.
type DescriptorSetArrayDescriptor struct {
	Label  string
	Layout DescriptorSetLayout
	Count  uint32
}

// DescriptorWrite binds a resource to one slot of one set within a
// DescriptorSetArray.
type DescriptorWrite struct {
	Set          DescriptorSetArray
	Index        uint32 // which set within the array
	Binding      uint32
	ArrayIndex   uint32
	Buffer       Buffer
	BufferOffset uint64
	BufferRange  uint64
	ImageView    ImageView
	Sampler      Sampler
}

// VertexAttribute describes one vertex input attribute.
type VertexAttribute struct {
	Format         types.TextureFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes one vertex buffer binding's stride and
// attributes.
type VertexBufferLayout struct {
	Stride          uint64
	StepPerInstance bool
	Attributes      []VertexAttribute
}

// ColorTargetState describes one color attachment's blend and write mask
// configuration within a graphics Pipeline.
type ColorTargetState struct {
	Format    types.TextureFormat
	BlendOp   uint8
	WriteMask uint8
}

// GraphicsPipelineDescriptor describes a graphics Pipeline to create.
type GraphicsPipelineDescriptor struct {
	Label          string
	Root           RootSignature
	Renderpass     Renderpass
	VertexShader   Shader
	FragmentShader Shader
	VertexBuffers  []VertexBufferLayout
	ColorTargets   []ColorTargetState
	DepthFormat    types.TextureFormat
	DepthTest      bool
	DepthWrite     bool
	Topology       uint8
	CullMode       uint8
	SampleCount    uint32
}

// ComputePipelineDescriptor describes a compute Pipeline to create.
type ComputePipelineDescriptor struct {
	Label  string
	Root   RootSignature
	Shader Shader
}

// AttachmentDescriptor describes one attachment slot of a Renderpass.
type AttachmentDescriptor struct {
	Format      types.TextureFormat
	SampleCount uint32
	LoadOp      uint8
	StoreOp     uint8
	FinalState  ResourceState
}

// SubpassDescriptor describes one subpass of a merged Renderpass, indexing
// into the Renderpass's attachment list.
type SubpassDescriptor struct {
	ColorAttachments []uint32
	DepthAttachment  *uint32
	InputAttachments []uint32
}

// RenderpassDescriptor describes a Renderpass to create.
type RenderpassDescriptor struct {
	Label       string
	Attachments []AttachmentDescriptor
	Subpasses   []SubpassDescriptor
}

// FramebufferDescriptor describes a Framebuffer to create.
type FramebufferDescriptor struct {
	Label      string
	Renderpass Renderpass
	Views      []ImageView
	Extent     types.Extent3D
}

// SwapchainDescriptor describes a Swapchain to create against a platform
// window surface.
type SwapchainDescriptor struct {
	Label       string
	Extent      types.Extent3D
	Format      types.TextureFormat
	ImageCount  uint32
	PresentMode uint8
}

// Device creates and destroys every resource kind the HAL exposes, and
// provides the command-encoder and synchronization-primitive factories.
type Device interface {
	CreateBuffer(desc BufferDescriptor) (Buffer, error)
	CreateImage(desc ImageDescriptor) (Image, error)
	CreateImageView(desc ImageViewDescriptor) (ImageView, error)
	CreateSampler(desc SamplerDescriptor) (Sampler, error)
	CreateShader(desc ShaderDescriptor) (Shader, error)
	CreateDescriptorSetLayout(desc DescriptorSetLayoutDescriptor) (DescriptorSetLayout, error)
	CreateRootSignature(desc RootSignatureDescriptor) (RootSignature, error)
	CreateDescriptorSetArray(desc DescriptorSetArrayDescriptor) (DescriptorSetArray, error)
	WriteDescriptorSets(writes []DescriptorWrite)
	CreateGraphicsPipeline(desc GraphicsPipelineDescriptor) (Pipeline, error)
	CreateComputePipeline(desc ComputePipelineDescriptor) (Pipeline, error)
	CreateRenderpass(desc RenderpassDescriptor) (Renderpass, error)
	CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error)
	CreateSwapchain(desc SwapchainDescriptor) (Swapchain, error)

	CreateCommandEncoder(queue QueueType) (CommandEncoder, error)
	CreateSemaphore() (Semaphore, error)
	CreateFence(signaled bool) (Fence, error)

	// WaitIdle blocks until all queues on this device have finished all
	// submitted work. Context calls it during teardown and from
	// WaitIdleTimeout.
	WaitIdle() error

	Destroy()
}

// SubmitInfo bundles one queue submission's wait/signal synchronization and
// the command buffers to execute.
type SubmitInfo struct {
	Wait           []Semaphore
	CommandBuffers []CommandBuffer
	Signal         []Semaphore
	SignalFence    Fence
}

// Queue executes recorded command buffers and transfers data between host
// and device memory.
type Queue interface {
	Submit(info SubmitInfo) error

	WriteBuffer(dst Buffer, offset uint64, data []byte) error
	WriteImage(dst Image, region BufferImageCopy, data []byte) error
}
