// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package upload_test

import (
	"testing"

	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/hal/noop"
	"github.com/gogpu/forge/types"
	"github.com/gogpu/forge/upload"
)

func openDevice(t *testing.T) (hal.Device, map[hal.QueueType]hal.Queue) {
	t.Helper()

	api := noop.API{}
	instance, err := api.CreateInstance(types.DefaultInstanceDescriptor())
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	t.Cleanup(instance.Destroy)

	adapters, err := instance.EnumerateAdapters()
	if err != nil {
		t.Fatalf("EnumerateAdapters failed: %v", err)
	}
	open, err := adapters[0].Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = open.Device.WaitIdle(); open.Device.Destroy() })

	return open.Device, open.Queues
}

func TestQueue_EnqueueWritesBuffer(t *testing.T) {
	device, queues := openDevice(t)

	buf, err := device.CreateBuffer(hal.BufferDescriptor{Size: 4, Usage: types.BufferUsageCopyDst})
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	defer buf.Destroy()

	q := upload.NewQueue(queues[hal.QueueTypeTransfer], 2)
	defer func() {
		if err := q.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	future, err := q.Enqueue(upload.Request{
		Data:        []byte{9, 8, 7, 6},
		Destination: upload.Destination{Buffer: buf},
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if err := future.Wait(); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !future.Done() {
		t.Error("Done() = false after Wait returned")
	}

	got := buf.(*noop.Buffer).Data
	want := []byte{9, 8, 7, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Data[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestQueue_EnqueueRejectsAmbiguousDestination(t *testing.T) {
	_, queues := openDevice(t)
	q := upload.NewQueue(queues[hal.QueueTypeTransfer], 1)
	defer q.Close()

	if _, err := q.Enqueue(upload.Request{Data: []byte{1}}); err == nil {
		t.Fatal("expected an error for a request naming neither a buffer nor an image")
	}
}

func TestQueue_FlushBarriersRecordsCollectedTransfers(t *testing.T) {
	device, queues := openDevice(t)

	buf, err := device.CreateBuffer(hal.BufferDescriptor{Size: 4, Usage: types.BufferUsageCopyDst})
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	defer buf.Destroy()

	q := upload.NewQueue(queues[hal.QueueTypeTransfer], 1)

	future, err := q.Enqueue(upload.Request{
		Data:        []byte{1, 2, 3, 4},
		Destination: upload.Destination{Buffer: buf},
		Transfer: hal.QueueFamilyTransfer{
			Mode:  hal.QueueFamilyTransferReleaseTo,
			Queue: hal.QueueTypeGraphics,
		},
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := future.Wait(); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	encoder, err := device.CreateCommandEncoder(hal.QueueTypeTransfer)
	if err != nil {
		t.Fatalf("CreateCommandEncoder failed: %v", err)
	}
	if err := encoder.BeginEncoding("flush-barriers"); err != nil {
		t.Fatalf("BeginEncoding failed: %v", err)
	}

	q.FlushBarriers(encoder)

	if _, err := encoder.EndEncoding(); err != nil {
		t.Fatalf("EndEncoding failed: %v", err)
	}

	if err := q.Close(); err != nil {
		t.Fatalf("Close should report no pending barriers after a flush: %v", err)
	}
}

func TestQueue_ClosePropagatesUnflushedBarriers(t *testing.T) {
	device, queues := openDevice(t)

	buf, err := device.CreateBuffer(hal.BufferDescriptor{Size: 4, Usage: types.BufferUsageCopyDst})
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	defer buf.Destroy()

	q := upload.NewQueue(queues[hal.QueueTypeTransfer], 1)

	future, err := q.Enqueue(upload.Request{
		Data:        []byte{1, 2, 3, 4},
		Destination: upload.Destination{Buffer: buf},
		Transfer: hal.QueueFamilyTransfer{
			Mode:  hal.QueueFamilyTransferReleaseTo,
			Queue: hal.QueueTypeGraphics,
		},
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := future.Wait(); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := q.Close(); err == nil {
		t.Fatal("expected Close to report the barrier that was never flushed")
	}
}
