// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dynresource

import (
	"testing"

	"github.com/gogpu/forge/hal"
)

type fakeImage struct{ destroyed bool }

func (f *fakeImage) Destroy() { f.destroyed = true }

type fakeBuffer struct{ destroyed bool }

func (f *fakeBuffer) Destroy() { f.destroyed = true }

func TestManagerSet_MetricsAndDestroy(t *testing.T) {
	set := NewManagerSet(2)
	allocs := set.CreateAllocatorSet()

	var img hal.Image = &fakeImage{}
	var buf hal.Buffer = &fakeBuffer{}

	imgArc := allocs.Images.Insert(img)
	bufArc := allocs.Buffers.Insert(buf)

	metrics := set.Metrics()
	if metrics.ImageCount != 1 || metrics.BufferCount != 1 {
		t.Fatalf("Metrics() = %+v, want 1 image and 1 buffer", metrics)
	}

	imgArc.Release()
	bufArc.Release()
	set.Destroy(nil)

	if !img.(*fakeImage).destroyed {
		t.Error("image should be destroyed by Destroy()")
	}
	if !buf.(*fakeBuffer).destroyed {
		t.Error("buffer should be destroyed by Destroy()")
	}
}
