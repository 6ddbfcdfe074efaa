// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package noop

import (
	"github.com/gogpu/forge/hal"
)

// Device implements hal.Device for the noop backend. Every Create* call
// always succeeds.
type Device struct{}

func (d *Device) CreateBuffer(desc hal.BufferDescriptor) (hal.Buffer, error) {
	return &Buffer{Data: make([]byte, desc.Size)}, nil
}

func (d *Device) CreateImage(_ hal.ImageDescriptor) (hal.Image, error) {
	return &Image{}, nil
}

func (d *Device) CreateImageView(_ hal.ImageViewDescriptor) (hal.ImageView, error) {
	return &ImageView{}, nil
}

func (d *Device) CreateSampler(_ hal.SamplerDescriptor) (hal.Sampler, error) {
	return &Sampler{}, nil
}

func (d *Device) CreateShader(_ hal.ShaderDescriptor) (hal.Shader, error) {
	return &Shader{}, nil
}

func (d *Device) CreateDescriptorSetLayout(_ hal.DescriptorSetLayoutDescriptor) (hal.DescriptorSetLayout, error) {
	return &DescriptorSetLayout{}, nil
}

func (d *Device) CreateRootSignature(_ hal.RootSignatureDescriptor) (hal.RootSignature, error) {
	return &RootSignature{}, nil
}

func (d *Device) CreateDescriptorSetArray(desc hal.DescriptorSetArrayDescriptor) (hal.DescriptorSetArray, error) {
	return &DescriptorSetArray{count: int(desc.Count)}, nil
}

// WriteDescriptorSets is a no-op: the noop backend does not model bound
// descriptor state.
func (d *Device) WriteDescriptorSets(_ []hal.DescriptorWrite) {}

func (d *Device) CreateGraphicsPipeline(_ hal.GraphicsPipelineDescriptor) (hal.Pipeline, error) {
	return &Pipeline{kind: hal.PipelineKindGraphics}, nil
}

func (d *Device) CreateComputePipeline(_ hal.ComputePipelineDescriptor) (hal.Pipeline, error) {
	return &Pipeline{kind: hal.PipelineKindCompute}, nil
}

func (d *Device) CreateRenderpass(_ hal.RenderpassDescriptor) (hal.Renderpass, error) {
	return &Renderpass{}, nil
}

func (d *Device) CreateFramebuffer(_ hal.FramebufferDescriptor) (hal.Framebuffer, error) {
	return &Framebuffer{}, nil
}

func (d *Device) CreateSwapchain(desc hal.SwapchainDescriptor) (hal.Swapchain, error) {
	count := desc.ImageCount
	if count == 0 {
		count = 2
	}
	images := make([]swapchainSlot, count)
	for i := range images {
		images[i] = swapchainSlot{image: Image{}, view: ImageView{}}
	}
	return &Swapchain{images: images}, nil
}

func (d *Device) CreateCommandEncoder(queue hal.QueueType) (hal.CommandEncoder, error) {
	return &CommandEncoder{queue: queue}, nil
}

func (d *Device) CreateSemaphore() (hal.Semaphore, error) {
	return &Semaphore{}, nil
}

func (d *Device) CreateFence(signaled bool) (hal.Fence, error) {
	return NewFence(signaled), nil
}

func (d *Device) WaitIdle() error { return nil }

func (d *Device) Destroy() {}
