// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package noop

import (
	"sync/atomic"

	"github.com/gogpu/forge/hal"
)

// Resource is the base embedded in every noop handle. Destroy is
// idempotent so tests can call it defensively without tracking state.
type Resource struct{}

func (Resource) Destroy() {}

// Buffer is a noop GPU buffer. It holds a backing byte slice so
// WriteBuffer/mapped-at-creation semantics can be exercised in tests.
type Buffer struct {
	Resource
	Data []byte
}

// Image is a noop GPU image.
type Image struct {
	Resource
}

// ImageView is a noop image view.
type ImageView struct {
	Resource
}

// Sampler is a noop sampler.
type Sampler struct {
	Resource
}

// Shader is a noop compiled shader module.
type Shader struct {
	Resource
}

// RootSignature is a noop root signature.
type RootSignature struct {
	Resource
}

// DescriptorSetLayout is a noop descriptor set layout.
type DescriptorSetLayout struct {
	Resource
}

// DescriptorSetArray is a noop descriptor set array.
type DescriptorSetArray struct {
	Resource
	count int
}

func (a *DescriptorSetArray) Len() int { return a.count }

// Pipeline is a noop graphics or compute pipeline.
type Pipeline struct {
	Resource
	kind hal.PipelineKind
}

func (p *Pipeline) Kind() hal.PipelineKind { return p.kind }

// Renderpass is a noop renderpass.
type Renderpass struct {
	Resource
}

// Framebuffer is a noop framebuffer.
type Framebuffer struct {
	Resource
}

// CommandBuffer is a noop recorded command buffer.
type CommandBuffer struct {
	Resource
}

// Semaphore is a noop GPU-GPU synchronization primitive.
type Semaphore struct {
	Resource
}

// Fence is a noop GPU-CPU synchronization primitive. Signal, Reset and
// Signaled are implemented with an atomic flag so tests can observe ordering.
type Fence struct {
	Resource
	signaled atomic.Bool
}

func NewFence(signaled bool) *Fence {
	f := &Fence{}
	f.signaled.Store(signaled)
	return f
}

func (f *Fence) Signal()        { f.signaled.Store(true) }
func (f *Fence) Reset()         { f.signaled.Store(false) }
func (f *Fence) Signaled() bool { return f.signaled.Load() }

// Swapchain is a noop presentation target: it cycles through a small ring
// of placeholder images.
type Swapchain struct {
	Resource
	images []swapchainSlot
	next   uint32
}

type swapchainSlot struct {
	image Image
	view  ImageView
}

// AcquireImage returns the next image in the ring, signaling ready
// immediately since there is no real presentation engine to wait on.
func (s *Swapchain) AcquireImage(ready hal.Semaphore) (hal.SwapchainImage, error) {
	idx := s.next
	s.next = (s.next + 1) % uint32(len(s.images))
	slot := s.images[idx]
	return hal.SwapchainImage{Image: &slot.image, View: &slot.view, Index: idx}, nil
}

// Present is a no-op: there is no presentation engine to hand the image to.
func (s *Swapchain) Present(_ hal.SwapchainImage, _ hal.Semaphore) error {
	return nil
}
