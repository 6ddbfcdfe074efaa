// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package upload

import (
	"testing"

	"github.com/gogpu/forge/hal"
)

func TestDestination_IsImage(t *testing.T) {
	if (Destination{Buffer: nil, Image: nil}).IsImage() {
		t.Error("IsImage() = true for an empty destination")
	}
}

func TestDestination_ValidateRejectsNeither(t *testing.T) {
	if err := (Destination{}).validate(0); err == nil {
		t.Fatal("expected an error for a destination naming neither a buffer nor an image")
	}
}

func TestRequest_BarrierNoneModeReturnsNil(t *testing.T) {
	req := Request{Transfer: hal.QueueFamilyTransfer{Mode: hal.QueueFamilyTransferNone}}
	img, buf := req.barrier()
	if img != nil || buf != nil {
		t.Errorf("barrier() = %v, %v, want nil, nil for QueueFamilyTransferNone", img, buf)
	}
}

func TestRequest_BarrierBufferDestination(t *testing.T) {
	req := Request{
		Data:        []byte{1, 2, 3, 4},
		Destination: Destination{BufferOffset: 16},
		Transfer: hal.QueueFamilyTransfer{
			Mode:  hal.QueueFamilyTransferReleaseTo,
			Queue: hal.QueueTypeGraphics,
		},
	}
	img, buf := req.barrier()
	if img != nil {
		t.Fatalf("expected no image barrier for a buffer destination, got %+v", img)
	}
	if buf == nil {
		t.Fatal("expected a buffer barrier")
	}
	if buf.Offset != 16 || buf.Size != 4 {
		t.Errorf("buffer barrier = %+v", buf)
	}
	if buf.Transfer.Mode != hal.QueueFamilyTransferReleaseTo {
		t.Errorf("buffer barrier transfer mode = %v", buf.Transfer.Mode)
	}
}
