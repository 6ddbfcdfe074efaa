// Package hal defines the narrow hardware abstraction vocabulary the
// orchestration core is built against: a fixed set of opaque resource
// handles (Buffer, Image, ImageView, Sampler, Shader, RootSignature,
// Pipeline, Renderpass, Framebuffer, DescriptorSetLayout,
// DescriptorSetArray, CommandBuffer, Semaphore, Fence, Swapchain), a fixed
// command-recording surface, and a discrete ResourceState barrier enum in
// place of a per-resource usage bitset.
//
// # Architecture
//
//  1. Backend   - factory for creating instances
//  2. Instance  - entry point for adapter enumeration
//  3. Adapter   - physical GPU representation
//  4. Device    - resource creation and command/sync primitive factories
//  5. Queue     - command buffer submission and host-to-device writes
//     (presentation is Swapchain.Present)
//  6. CommandEncoder - command recording
//
// Unlike a full WebGPU-shaped HAL, this package has no per-resource CRUD
// surface beyond creation and Destroy, no bind-group concept (superseded by
// RootSignature + DescriptorSetLayout + DescriptorSetArray), and no
// orthogonal usage bitset on barriers — a resource is always in exactly one
// ResourceState.
//
// # Design principles
//
// The HAL favors portability over safety: validation is the caller's
// responsibility, and only unrecoverable errors (out of memory, device
// lost) are returned. Invalid usage is undefined behavior at the GPU level.
//
// # Backend registration
//
// Backends register themselves via RegisterBackend, typically from an
// init() function:
//
//	backend, ok := hal.GetBackend(types.BackendVulkan)
//	if !ok {
//		return fmt.Errorf("vulkan backend not available")
//	}
//	instance, err := backend.CreateInstance(desc)
//
// hal/noop is the only backend implemented in this module; it is a
// deterministic reference implementation used for testing the
// orchestration layers above the HAL boundary.
//
// # Thread safety
//
// Unless stated otherwise, HAL interfaces are not thread-safe; the caller
// synchronizes. Backend registration (RegisterBackend, GetBackend,
// AvailableBackends) is the one exception and is always safe for
// concurrent use.
package hal
