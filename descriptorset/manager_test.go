// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package descriptorset_test

import (
	"testing"

	"github.com/gogpu/forge/descriptorset"
	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/hal/noop"
	"github.com/gogpu/forge/lookup"
	"github.com/gogpu/forge/types"
)

func openDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()

	instance, err := (noop.API{}).CreateInstance(types.DefaultInstanceDescriptor())
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	t.Cleanup(instance.Destroy)

	adapters, err := instance.EnumerateAdapters()
	if err != nil || len(adapters) == 0 {
		t.Fatalf("EnumerateAdapters failed: %v", err)
	}

	open, err := adapters[0].Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = open.Device.WaitIdle(); open.Device.Destroy() })

	return open.Device, open.Queues[hal.QueueTypeGraphics]
}

func uniformLayout(internalBufferSize uint32) hal.DescriptorSetLayoutDescriptor {
	return hal.DescriptorSetLayoutDescriptor{
		Label: "test-layout",
		Bindings: []hal.DescriptorBinding{
			{Index: 0, Type: hal.DescriptorBindingUniformBuffer, Count: 1, Visibility: types.ShaderStagesVertexFragment, InternalBufferSize: internalBufferSize},
		},
	}
}

func internLayout(t *testing.T, device hal.Device, table *lookup.Table[hal.DescriptorSetLayout], hash lookup.Hash, desc hal.DescriptorSetLayoutDescriptor) lookup.Handle[hal.DescriptorSetLayout] {
	t.Helper()
	h, err := table.GetOrCreate(hash, func() (hal.DescriptorSetLayout, []lookup.Releaser, error) {
		l, err := device.CreateDescriptorSetLayout(desc)
		return l, nil, err
	})
	if err != nil {
		t.Fatalf("GetOrCreate layout failed: %v", err)
	}
	return h
}

func TestManager_CreateAllocatesFromPool(t *testing.T) {
	device, queue := openDevice(t)
	table := lookup.NewTable[hal.DescriptorSetLayout](2)
	t.Cleanup(func() { table.Destroy(nil) })

	desc := uniformLayout(64)
	hash := lookup.HashBytes([]byte("layout-a"))
	layout := internLayout(t, device, table, hash, desc)

	mgr := descriptorset.NewManager(device, queue, descriptorset.Config{ChunkSize: 4, FramesInFlight: 2})
	t.Cleanup(mgr.Destroy)

	handle, err := mgr.CreateUninitialized(hash, desc, layout)
	if err != nil {
		t.Fatalf("CreateUninitialized failed: %v", err)
	}
	if !handle.IsValid() {
		t.Fatal("expected a valid handle")
	}

	metrics := mgr.Metrics()
	if len(metrics.Pools) != 1 || metrics.Pools[0].Count != 1 {
		t.Errorf("metrics = %+v, want one pool with one live slot", metrics)
	}
}

func TestManager_DeferredFreeAfterNFrames(t *testing.T) {
	device, queue := openDevice(t)
	table := lookup.NewTable[hal.DescriptorSetLayout](2)
	t.Cleanup(func() { table.Destroy(nil) })

	desc := uniformLayout(0)
	hash := lookup.HashBytes([]byte("layout-b"))
	layout := internLayout(t, device, table, hash, desc)

	const framesInFlight = 2
	mgr := descriptorset.NewManager(device, queue, descriptorset.Config{ChunkSize: 8, FramesInFlight: framesInFlight})
	t.Cleanup(mgr.Destroy)

	handles := make([]descriptorset.Handle, 0, 10)
	for i := 0; i < 10; i++ {
		h, err := mgr.CreateUninitialized(hash, desc, layout.Clone())
		if err != nil {
			t.Fatalf("CreateUninitialized failed: %v", err)
		}
		handles = append(handles, h)
	}
	if err := mgr.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	for _, h := range handles {
		h.Release()
	}

	for i := 0; i < framesInFlight; i++ {
		if err := mgr.Update(); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got := mgr.Metrics().Pools[0].Count; got != 10 {
			t.Errorf("frame %d: live count = %d, want 10 (still within retention window)", i, got)
		}
	}

	if err := mgr.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := mgr.Metrics().Pools[0].Count; got != 0 {
		t.Errorf("live count after retention window = %d, want 0", got)
	}
}

func TestManager_WriteFrameIndexAdvancesAndWraps(t *testing.T) {
	device, queue := openDevice(t)
	mgr := descriptorset.NewManager(device, queue, descriptorset.Config{ChunkSize: 4, FramesInFlight: 2})
	t.Cleanup(mgr.Destroy)

	if got := mgr.WriteFrameIndex(); got != 0 {
		t.Fatalf("initial WriteFrameIndex = %d, want 0", got)
	}
	for i := uint32(1); i <= 3; i++ {
		if err := mgr.Update(); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		want := i % 3
		if got := mgr.WriteFrameIndex(); got != want {
			t.Errorf("WriteFrameIndex after %d updates = %d, want %d", i, got, want)
		}
	}
}

func TestManager_DynamicSetCommitSchedulesWrite(t *testing.T) {
	device, queue := openDevice(t)
	table := lookup.NewTable[hal.DescriptorSetLayout](1)
	t.Cleanup(func() { table.Destroy(nil) })

	desc := hal.DescriptorSetLayoutDescriptor{
		Bindings: []hal.DescriptorBinding{
			{Index: 0, Type: hal.DescriptorBindingSampledImage, Count: 1, Visibility: types.ShaderStageFragment},
		},
	}
	hash := lookup.HashBytes([]byte("layout-dyn"))
	layout := internLayout(t, device, table, hash, desc)

	mgr := descriptorset.NewManager(device, queue, descriptorset.Config{ChunkSize: 4, FramesInFlight: 1})
	t.Cleanup(mgr.Destroy)

	handle, err := mgr.CreateUninitialized(hash, desc, layout)
	if err != nil {
		t.Fatalf("CreateUninitialized failed: %v", err)
	}

	dyn := descriptorset.NewDynamicSet(handle)
	dyn.SetImage(0, []descriptorset.ImageWrite{{}})
	dyn.Commit()

	if err := mgr.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}
