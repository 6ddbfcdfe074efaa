// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package descriptorset

import (
	"sync"

	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/lookup"
)

// PoolMetrics reports diagnostic counters for a single layout's pool.
type PoolMetrics struct {
	Hash  lookup.Hash
	Count int
}

// Metrics reports diagnostic counters across every pool a Manager owns.
type Metrics struct {
	Pools []PoolMetrics
}

// Manager owns one Pool per distinct descriptor-set layout and advances a
// shared frame-in-flight index across all of them.
type Manager struct {
	device hal.Device
	queue  hal.Queue
	cfg    Config

	mu               sync.Mutex
	pools            map[lookup.Hash]*Pool
	frameInFlightIdx uint32
}

// NewManager creates a descriptor-set manager bound to device/queue.
func NewManager(device hal.Device, queue hal.Queue, cfg Config) *Manager {
	return &Manager{
		device: device,
		queue:  queue,
		cfg:    cfg,
		pools:  make(map[lookup.Hash]*Pool),
	}
}

// Create allocates a descriptor set from the pool for the given layout,
// creating the pool (and interning the layout) on first use, and
// schedules ws for the current frame-in-flight index.
func (m *Manager) Create(layoutHash lookup.Hash, layoutDesc hal.DescriptorSetLayoutDescriptor, layout lookup.Handle[hal.DescriptorSetLayout], ws WriteSet) (Handle, error) {
	pool := m.poolFor(layoutHash, layoutDesc, layout)

	m.mu.Lock()
	frameIdx := m.frameInFlightIdx
	m.mu.Unlock()

	return pool.insert(ws, frameIdx)
}

// CreateUninitialized allocates a descriptor set with every binding
// zero-valued, ready for a DynamicSet builder to fill in incrementally.
func (m *Manager) CreateUninitialized(layoutHash lookup.Hash, layoutDesc hal.DescriptorSetLayoutDescriptor, layout lookup.Handle[hal.DescriptorSetLayout]) (Handle, error) {
	return m.Create(layoutHash, layoutDesc, layout, UninitializedWriteSet(layoutDesc))
}

func (m *Manager) poolFor(layoutHash lookup.Hash, layoutDesc hal.DescriptorSetLayoutDescriptor, layout lookup.Handle[hal.DescriptorSetLayout]) *Pool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.pools[layoutHash]; ok {
		layout.Release()
		return p
	}

	p := newPool(m.device, m.queue, layout, layoutDesc, m.cfg)
	m.pools[layoutHash] = p
	return p
}

// Update schedules pending drops, flushes pending writes to the device
// for the current frame-in-flight index, and advances the index.
func (m *Manager) Update() error {
	m.mu.Lock()
	frameIdx := m.frameInFlightIdx
	pools := make([]*Pool, 0, len(m.pools))
	for _, p := range m.pools {
		pools = append(pools, p)
	}
	m.mu.Unlock()

	for _, p := range pools {
		p.scheduleChanges(frameIdx)
	}
	for _, p := range pools {
		if err := p.flushChanges(frameIdx); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.frameInFlightIdx = (m.frameInFlightIdx + 1) % (m.cfg.FramesInFlight + 1)
	m.mu.Unlock()
	return nil
}

// WriteFrameIndex returns the frame-in-flight index writes are currently
// scheduled against (the index Create/modify operations target).
func (m *Manager) WriteFrameIndex() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frameInFlightIdx
}

// ReadFrameIndex returns the frame-in-flight index GPU work recorded this
// frame should bind — one slot behind WriteFrameIndex, so a submission
// reads the fully-flushed contents from the previous Update rather than a
// write still pending for the current one.
func (m *Manager) ReadFrameIndex() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frameInFlightIdx == 0 {
		return m.cfg.FramesInFlight
	}
	return m.frameInFlightIdx - 1
}

// Metrics snapshots per-pool live-slot counts.
func (m *Manager) Metrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics := Metrics{Pools: make([]PoolMetrics, 0, len(m.pools))}
	for hash, p := range m.pools {
		metrics.Pools = append(metrics.Pools, PoolMetrics{Hash: hash, Count: p.liveCount()})
	}
	return metrics
}

// Destroy tears down every pool, destroying their chunks and releasing
// their interned layouts.
func (m *Manager) Destroy() {
	m.mu.Lock()
	pools := m.pools
	m.pools = make(map[lookup.Hash]*Pool)
	m.mu.Unlock()

	for _, p := range pools {
		p.destroy()
	}
}
