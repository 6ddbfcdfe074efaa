// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package upload

import (
	"fmt"

	"github.com/gogpu/forge/hal"
)

// Destination names what a Request writes to: either a byte range of a
// Buffer, or one region of an Image. Exactly one of Buffer or Image must
// be set.
type Destination struct {
	Buffer       hal.Buffer
	BufferOffset uint64

	Image       hal.Image
	ImageRegion hal.BufferImageCopy
}

// IsImage reports whether this Destination targets an Image rather than
// a Buffer.
func (d Destination) IsImage() bool {
	return d.Image != nil
}

func (d Destination) validate(dataLen int) error {
	switch {
	case d.Buffer != nil && d.Image != nil:
		return fmt.Errorf("upload: destination names both a buffer and an image")
	case d.Buffer == nil && d.Image == nil:
		return fmt.Errorf("upload: destination names neither a buffer nor an image")
	}
	return nil
}

// Request is one pending host-to-device copy. Data is copied host-side
// before Queue.Enqueue returns, so the caller's backing slice is free to
// reuse immediately afterward.
//
// Transfer carries an optional queue-family ownership transfer the
// caller wants recorded once the copy lands; Queue never issues it
// itself (see FlushBarriers), since only the caller's own
// command-recording thread may issue barriers against a CommandEncoder.
type Request struct {
	Data        []byte
	Destination Destination
	Transfer    hal.QueueFamilyTransfer
}

func (r Request) barrier() (imageBarrier *hal.ImageBarrier, bufferBarrier *hal.BufferBarrier) {
	if r.Transfer.Mode == hal.QueueFamilyTransferNone {
		return nil, nil
	}
	if r.Destination.IsImage() {
		return &hal.ImageBarrier{
			Image: r.Destination.Image,
			Range: hal.ImageRange{
				Aspect:         r.Destination.ImageRegion.ImageAspect,
				BaseMipLevel:   r.Destination.ImageRegion.ImageMipLevel,
				MipLevelCount:  1,
				BaseArrayLayer: 0,
				ArrayLayerCount: 0,
			},
			Before:   hal.ResourceStateCopyDst,
			After:    hal.ResourceStateShaderResource,
			Transfer: r.Transfer,
		}, nil
	}
	return nil, &hal.BufferBarrier{
		Buffer:   r.Destination.Buffer,
		Offset:   r.Destination.BufferOffset,
		Size:     uint64(len(r.Data)),
		Before:   hal.ResourceStateCopyDst,
		After:    hal.ResourceStateShaderResource,
		Transfer: r.Transfer,
	}
}
