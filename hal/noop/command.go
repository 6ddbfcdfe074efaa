// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package noop

import (
	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/types"
)

// CommandEncoder implements hal.CommandEncoder for the noop backend. It
// performs no recording; every call is a no-op that returns a fresh
// placeholder where the interface requires one.
type CommandEncoder struct {
	queue  hal.QueueType
	active bool
}

func (e *CommandEncoder) BeginEncoding(_ string) error {
	e.active = true
	return nil
}

func (e *CommandEncoder) EndEncoding() (hal.CommandBuffer, error) {
	e.active = false
	return &CommandBuffer{}, nil
}

func (e *CommandEncoder) DiscardEncoding() { e.active = false }

func (e *CommandEncoder) Barrier(_ []hal.ImageBarrier, _ []hal.BufferBarrier) {}

func (e *CommandEncoder) BindPipeline(_ hal.Pipeline) {}

func (e *CommandEncoder) BindVertexBuffer(_ uint32, _ hal.Buffer, _ uint64) {}

func (e *CommandEncoder) BindIndexBuffer(_ hal.Buffer, _ uint64, _ types.IndexFormat) {}

func (e *CommandEncoder) BindDescriptorSets(_ hal.RootSignature, _ uint32, _ []hal.DescriptorSetArray, _ []uint32, _ []uint32) {
}

func (e *CommandEncoder) CopyBufferToBuffer(_, _ hal.Buffer, _ []hal.BufferCopy) {}

func (e *CommandEncoder) CopyBufferToImage(_ hal.Buffer, _ hal.Image, _ []hal.BufferImageCopy) {}

func (e *CommandEncoder) CopyImageToBuffer(_ hal.Image, _ hal.Buffer, _ []hal.BufferImageCopy) {}

func (e *CommandEncoder) CopyImageToImage(_, _ hal.Image, _ []hal.ImageCopy) {}

func (e *CommandEncoder) BeginRenderpass(_ hal.Renderpass, _ hal.Framebuffer, _ []hal.ClearValue) hal.RenderCommands {
	return &RenderCommands{}
}

func (e *CommandEncoder) BeginCompute() hal.ComputeCommands {
	return &ComputeCommands{}
}

// RenderCommands implements hal.RenderCommands; every call is a no-op.
type RenderCommands struct{}

func (RenderCommands) End() {}
func (RenderCommands) SetViewport(_, _, _, _, _, _ float32) {}
func (RenderCommands) SetScissor(_, _, _, _ uint32) {}
func (RenderCommands) Draw(_, _, _, _ uint32) {}
func (RenderCommands) DrawIndexed(_, _, _ uint32, _ int32, _ uint32) {}
func (RenderCommands) DrawIndirect(_ hal.Buffer, _ uint64, _, _ uint32) {}
func (RenderCommands) DrawIndexedIndirect(_ hal.Buffer, _ uint64, _, _ uint32) {}
func (RenderCommands) NextSubpass() {}

// ComputeCommands implements hal.ComputeCommands; every call is a no-op.
type ComputeCommands struct{}

func (ComputeCommands) End() {}
func (ComputeCommands) Dispatch(_, _, _ uint32) {}
func (ComputeCommands) DispatchIndirect(_ hal.Buffer, _ uint64) {}
