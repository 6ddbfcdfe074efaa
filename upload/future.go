// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package upload

import "sync/atomic"

// Future settles once when the Request it was handed out for finishes,
// successfully or not. Poll is non-blocking; Wait blocks the calling
// goroutine until settlement, which callers that already run on their
// own worker goroutine (rather than a frame-critical thread) may prefer.
type Future struct {
	done atomic.Bool
	err  atomic.Pointer[error]
	c    chan struct{}
}

func newFuture() *Future {
	return &Future{c: make(chan struct{})}
}

// Done reports whether the upload has finished, successfully or not.
func (f *Future) Done() bool {
	return f.done.Load()
}

// Poll reports whether the upload has finished and, if so, the error it
// finished with (nil on success). The second return value mirrors Done.
func (f *Future) Poll() (done bool, err error) {
	if !f.done.Load() {
		return false, nil
	}
	if p := f.err.Load(); p != nil {
		return true, *p
	}
	return true, nil
}

// Wait blocks until the upload settles and returns the error it settled
// with.
func (f *Future) Wait() error {
	<-f.c
	if p := f.err.Load(); p != nil {
		return *p
	}
	return nil
}

func (f *Future) settle(err error) {
	if err != nil {
		f.err.Store(&err)
	}
	f.done.Store(true)
	close(f.c)
}
