// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package descriptorset

import (
	"sync"

	"github.com/gogpu/forge/core"
	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/lookup"
)

// DefaultChunkSize is MAX_DESCRIPTOR_SETS_PER_POOL: the number of logical
// slots a single chunk (and its backing hal.DescriptorSetArray) covers.
const DefaultChunkSize = 64

type pendingFree struct {
	id            core.DescriptorSetID
	reclaimsAtIdx uint32
}

// Pool allocates and frees descriptor sets for a single hal layout, out of
// chunks of Config.ChunkSize slots (DefaultChunkSize when zero).
type Pool struct {
	device         hal.Device
	queue          hal.Queue
	layoutHandle   lookup.Handle[hal.DescriptorSetLayout]
	chunkSize      uint32
	framesInFlight uint32
	bufferInfos    []requiredBufferInfo

	mu     sync.Mutex
	ids    *core.DescriptorSetIdentityManager
	states map[core.Index]*slotState
	chunks []*chunk

	dropCh       chan core.DescriptorSetID
	pendingFrees []pendingFree
}

// Config parameterizes a Pool (and, bundled across layouts, a Manager).
type Config struct {
	ChunkSize      uint32
	FramesInFlight uint32

	// UniformBufferAlignment / StorageBufferAlignment are the device's
	// min*BufferOffsetAlignment limits, used to round up internal-buffer
	// per-descriptor strides. Zero disables rounding (useful in tests
	// against the noop backend, which has no alignment requirement).
	UniformBufferAlignment uint32
	StorageBufferAlignment uint32
}

func (c Config) chunkSize() uint32 {
	if c.ChunkSize == 0 {
		return DefaultChunkSize
	}
	return c.ChunkSize
}

func newPool(device hal.Device, queue hal.Queue, layoutHandle lookup.Handle[hal.DescriptorSetLayout], layoutDesc hal.DescriptorSetLayoutDescriptor, cfg Config) *Pool {
	var bufferInfos []requiredBufferInfo
	for _, binding := range layoutDesc.Bindings {
		if binding.InternalBufferSize == 0 {
			continue
		}
		alignment := cfg.UniformBufferAlignment
		if binding.Type == hal.DescriptorBindingStorageBuffer || binding.Type == hal.DescriptorBindingStorageBufferDynamic {
			alignment = cfg.StorageBufferAlignment
		}
		bufferInfos = append(bufferInfos, requiredBufferInfo{
			binding:        binding.Index,
			elementSize:    binding.InternalBufferSize,
			stride:         roundUpToAlignment(binding.InternalBufferSize, alignment),
			descriptorType: binding.Type,
		})
	}

	return &Pool{
		device:         device,
		queue:          queue,
		layoutHandle:   layoutHandle,
		chunkSize:      cfg.chunkSize(),
		framesInFlight: cfg.FramesInFlight,
		bufferInfos:    bufferInfos,
		ids:            core.NewDescriptorSetIdentityManager(),
		states:         make(map[core.Index]*slotState),
		dropCh:         make(chan core.DescriptorSetID, 256),
	}
}

// insert allocates a fresh logical slot, schedules ws for the given
// frame-in-flight index, and returns a Handle with one outstanding
// reference.
func (p *Pool) insert(ws WriteSet, frameInFlightIdx uint32) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.ids.Alloc()
	index := id.Index()
	chunkIndex := index / p.chunkSize
	if err := p.ensureChunk(chunkIndex); err != nil {
		p.ids.Release(id)
		return Handle{}, err
	}

	state := &slotState{id: id, dropTx: p.dropCh}
	state.refCount.Store(1)
	p.states[index] = state

	localIndex := index % p.chunkSize
	p.chunks[chunkIndex].scheduleWrite(localIndex, ws)

	return Handle{pool: p, state: state}, nil
}

func (p *Pool) ensureChunk(chunkIndex uint32) error {
	for uint32(len(p.chunks)) <= chunkIndex {
		c, err := newChunk(p.device, p.layoutHandle.Get(), p.chunkSize, p.framesInFlight, p.bufferInfos)
		if err != nil {
			return err
		}
		p.chunks = append(p.chunks, c)
	}
	return nil
}

// scheduleWrite merges ws into the pending write for id's slot.
func (p *Pool) scheduleWrite(id core.DescriptorSetID, ws WriteSet) {
	p.mu.Lock()
	defer p.mu.Unlock()

	index := id.Index()
	chunkIndex := index / p.chunkSize
	localIndex := index % p.chunkSize
	if chunkIndex >= uint32(len(p.chunks)) {
		return
	}
	p.chunks[chunkIndex].scheduleWrite(localIndex, ws)
}

// physicalSet resolves id to the array and physical index to bind at
// frameIndex.
func (p *Pool) physicalSet(id core.DescriptorSetID, frameIndex uint32) (hal.DescriptorSetArray, uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	index := id.Index()
	chunkIndex := index / p.chunkSize
	localIndex := index % p.chunkSize
	physical := localIndex*(p.framesInFlight+1) + frameIndex
	return p.chunks[chunkIndex].array, physical
}

// scheduleChanges drains dropped handles into pendingFrees, tagging each
// with the frame-in-flight index at which it becomes reclaimable.
func (p *Pool) scheduleChanges(currentFrameIdx uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	reclaimsAt := (currentFrameIdx + p.framesInFlight) % (p.framesInFlight + 1)
drain:
	for {
		select {
		case id := <-p.dropCh:
			p.pendingFrees = append(p.pendingFrees, pendingFree{id: id, reclaimsAtIdx: reclaimsAt})
		default:
			break drain
		}
	}
}

// flushChanges applies every chunk's pending writes for currentFrameIdx
// and reclaims slots whose pending-free has come due.
func (p *Pool) flushChanges(currentFrameIdx uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range p.chunks {
		if err := c.flush(p.device, p.queue, currentFrameIdx); err != nil {
			return err
		}
	}

	remaining := p.pendingFrees[:0]
	for _, pf := range p.pendingFrees {
		if pf.reclaimsAtIdx != currentFrameIdx {
			remaining = append(remaining, pf)
			continue
		}
		delete(p.states, pf.id.Index())
		p.ids.Release(pf.id)
	}
	p.pendingFrees = remaining
	return nil
}

// liveCount reports the number of currently allocated (not yet reclaimed)
// slots in the pool.
func (p *Pool) liveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.states)
}

func (p *Pool) destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.chunks {
		c.destroy()
	}
	p.chunks = nil
	p.layoutHandle.Release()
}
