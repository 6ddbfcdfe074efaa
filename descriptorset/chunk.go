// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package descriptorset

import (
	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/types"
)

// requiredBufferInfo describes one binding's opt-in internal buffer: the
// chunk allocates a single hal.Buffer covering every logical slot and
// frame-in-flight index, addressed at slot*stride.
type requiredBufferInfo struct {
	binding        uint32
	elementSize    uint32
	stride         uint32
	descriptorType hal.DescriptorBindingType
}

// roundUpToAlignment rounds size up to the next multiple of alignment.
// alignment of zero disables rounding.
func roundUpToAlignment(size, alignment uint32) uint32 {
	if alignment == 0 {
		return size
	}
	return (size + alignment - 1) / alignment * alignment
}

// chunk owns one hal.DescriptorSetArray covering chunkSize logical slots,
// each with framesInFlight+1 physical descriptor sets, plus one internal
// buffer per required-buffer binding.
type chunk struct {
	array          hal.DescriptorSetArray
	buffers        map[uint32]hal.Buffer
	bufferInfos    map[uint32]requiredBufferInfo
	chunkSize      uint32
	framesInFlight uint32

	// pending holds, per local slot index, the write merged in since the
	// last time it was flushed to the device.
	pending map[uint32]WriteSet
}

func newChunk(device hal.Device, layout hal.DescriptorSetLayout, chunkSize, framesInFlight uint32, bufferInfos []requiredBufferInfo) (*chunk, error) {
	slots := chunkSize * (framesInFlight + 1)

	array, err := device.CreateDescriptorSetArray(hal.DescriptorSetArrayDescriptor{
		Label:  "descriptorset.chunk",
		Layout: layout,
		Count:  slots,
	})
	if err != nil {
		return nil, err
	}

	c := &chunk{
		array:          array,
		buffers:        make(map[uint32]hal.Buffer, len(bufferInfos)),
		bufferInfos:    make(map[uint32]requiredBufferInfo, len(bufferInfos)),
		chunkSize:      chunkSize,
		framesInFlight: framesInFlight,
		pending:        make(map[uint32]WriteSet),
	}

	for _, info := range bufferInfos {
		buf, err := device.CreateBuffer(hal.BufferDescriptor{
			Label:  "descriptorset.chunk.internal-buffer",
			Size:   uint64(slots) * uint64(info.stride),
			Usage:  bufferUsageFor(info.descriptorType),
			Memory: hal.MemoryUsageCPUToGPU,
		})
		if err != nil {
			array.Destroy()
			for _, b := range c.buffers {
				b.Destroy()
			}
			return nil, err
		}
		c.buffers[info.binding] = buf
		c.bufferInfos[info.binding] = info
	}

	return c, nil
}

func bufferUsageFor(t hal.DescriptorBindingType) types.BufferUsage {
	switch t {
	case hal.DescriptorBindingStorageBuffer, hal.DescriptorBindingStorageBufferDynamic:
		return types.BufferUsageStorage | types.BufferUsageCopyDst
	default:
		return types.BufferUsageUniform | types.BufferUsageCopyDst
	}
}

// internalBufferOffset returns the byte offset of the physical slot's
// range within binding's internal buffer.
func (c *chunk) internalBufferOffset(binding uint32, physicalSlot uint32) uint64 {
	return uint64(physicalSlot) * uint64(c.bufferInfos[binding].stride)
}

// scheduleWrite merges ws into the pending write for localIndex.
func (c *chunk) scheduleWrite(localIndex uint32, ws WriteSet) {
	existing, ok := c.pending[localIndex]
	if !ok {
		existing = NewWriteSet()
	}
	existing.CopyFrom(ws)
	c.pending[localIndex] = existing
}

// flush applies every pending write to the physical descriptor set at
// frameIndex and, for internal-buffer bindings carrying inline bytes,
// copies the bytes into the buffer via queue. A write is applied once,
// to the single physical slot for frameIndex, and then dropped from
// pending: it is only the selection of which physical slot a frame reads
// that rotates across frames in flight, not the underlying binding.
func (c *chunk) flush(device hal.Device, queue hal.Queue, frameIndex uint32) error {
	if len(c.pending) == 0 {
		return nil
	}

	var writes []hal.DescriptorWrite
	for localIndex, ws := range c.pending {
		physical := localIndex*(c.framesInFlight+1) + frameIndex
		for key, elem := range ws.Elements {
			if info, ok := c.bufferInfos[key.Binding]; ok {
				if err := c.flushInternalBuffer(queue, info, physical, elem); err != nil {
					return err
				}
				writes = append(writes, hal.DescriptorWrite{
					Set:          c.array,
					Index:        physical,
					Binding:      key.Binding,
					Buffer:       c.buffers[key.Binding],
					BufferOffset: c.internalBufferOffset(key.Binding, physical),
					BufferRange:  uint64(info.elementSize),
				})
				continue
			}
			for arrayIndex, img := range elem.Images {
				writes = append(writes, hal.DescriptorWrite{
					Set:        c.array,
					Index:      physical,
					Binding:    key.Binding,
					ArrayIndex: uint32(arrayIndex), //nolint:gosec // G115: bounded by descriptor array count
					ImageView:  img.View,
					Sampler:    img.Sampler,
				})
			}
			for arrayIndex, buf := range elem.Buffers {
				if buf.Buffer == nil {
					continue
				}
				writes = append(writes, hal.DescriptorWrite{
					Set:          c.array,
					Index:        physical,
					Binding:      key.Binding,
					ArrayIndex:   uint32(arrayIndex), //nolint:gosec // G115: bounded by descriptor array count
					Buffer:       buf.Buffer,
					BufferOffset: buf.Offset,
					BufferRange:  buf.Range,
				})
			}
		}
	}

	if len(writes) > 0 {
		device.WriteDescriptorSets(writes)
	}
	c.pending = make(map[uint32]WriteSet)
	return nil
}

func (c *chunk) flushInternalBuffer(queue hal.Queue, info requiredBufferInfo, physical uint32, elem ElementWrite) error {
	for _, buf := range elem.Buffers {
		if buf.Inline == nil {
			continue
		}
		offset := c.internalBufferOffset(info.binding, physical)
		if err := queue.WriteBuffer(c.buffers[info.binding], offset, buf.Inline); err != nil {
			return err
		}
	}
	return nil
}

func (c *chunk) destroy() {
	c.array.Destroy()
	for _, buf := range c.buffers {
		buf.Destroy()
	}
}
