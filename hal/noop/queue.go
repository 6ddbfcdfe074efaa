// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package noop

import "github.com/gogpu/forge/hal"

// Queue implements hal.Queue for the noop backend.
type Queue struct{}

// Submit immediately signals any fence attached to the submission, since
// there is no real execution to wait on.
func (q *Queue) Submit(info hal.SubmitInfo) error {
	if f, ok := info.SignalFence.(*Fence); ok {
		f.Signal()
	}
	return nil
}

// WriteBuffer copies data into the noop buffer's backing slice, so tests
// that round-trip data through the HAL observe the expected bytes.
func (q *Queue) WriteBuffer(dst hal.Buffer, offset uint64, data []byte) error {
	b, ok := dst.(*Buffer)
	if !ok {
		return nil
	}
	end := offset + uint64(len(data))
	if end > uint64(len(b.Data)) {
		grown := make([]byte, end)
		copy(grown, b.Data)
		b.Data = grown
	}
	copy(b.Data[offset:end], data)
	return nil
}

// WriteImage is a no-op: the noop backend does not model image contents.
func (q *Queue) WriteImage(_ hal.Image, _ hal.BufferImageCopy, _ []byte) error {
	return nil
}
