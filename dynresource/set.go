// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dynresource

import (
	"log/slog"

	"github.com/gogpu/forge/hal"
)

// ManagerSet bundles one Manager per dynamically-allocated resource kind.
// A Context owns exactly one ManagerSet.
type ManagerSet struct {
	Images   *Manager[hal.Image]
	Buffers  *Manager[hal.Buffer]
	Samplers *Manager[hal.Sampler]
}

// NewManagerSet creates a ManagerSet whose managers each retain dropped
// resources for maxFramesInFlight frames.
func NewManagerSet(maxFramesInFlight uint32) *ManagerSet {
	return &ManagerSet{
		Images:   NewManager[hal.Image](maxFramesInFlight),
		Buffers:  NewManager[hal.Buffer](maxFramesInFlight),
		Samplers: NewManager[hal.Sampler](maxFramesInFlight),
	}
}

// AllocatorSet bundles one Allocator per resource kind, handed out together
// so a single caller (e.g. a worker thread preparing a frame) allocates
// every kind through allocators that share no locks with other callers.
type AllocatorSet struct {
	Images   *Allocator[hal.Image]
	Buffers  *Allocator[hal.Buffer]
	Samplers *Allocator[hal.Sampler]
}

// CreateAllocatorSet returns a fresh AllocatorSet backed by this ManagerSet.
func (s *ManagerSet) CreateAllocatorSet() *AllocatorSet {
	return &AllocatorSet{
		Images:   s.Images.CreateAllocator(),
		Buffers:  s.Buffers.CreateAllocator(),
		Samplers: s.Samplers.CreateAllocator(),
	}
}

// OnFrameComplete advances every manager's retention ring by one frame.
func (s *ManagerSet) OnFrameComplete() {
	s.Images.OnFrameComplete()
	s.Buffers.OnFrameComplete()
	s.Samplers.OnFrameComplete()
}

// Destroy tears down every manager. Images are destroyed before buffers,
// since image views and framebuffers built against them are expected to
// have already been released by the caller.
func (s *ManagerSet) Destroy(logger *slog.Logger) {
	s.Images.Destroy(logger)
	s.Buffers.Destroy(logger)
	s.Samplers.Destroy(logger)
}

// Metrics reports the live reference count for each resource kind.
type Metrics struct {
	ImageCount   int
	BufferCount  int
	SamplerCount int
}

// Metrics snapshots the current live counts across the set.
func (s *ManagerSet) Metrics() Metrics {
	return Metrics{
		ImageCount:   s.Images.Len(),
		BufferCount:  s.Buffers.Len(),
		SamplerCount: s.Samplers.Len(),
	}
}
