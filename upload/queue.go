// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package upload

import (
	"fmt"
	"sync"

	"github.com/gogpu/forge/hal"
)

// Queue drives host-to-device copies on a small worker pool, decoupling
// asset-loading code from the latency of any one WriteBuffer/WriteImage
// call. Copies for unrelated Requests can land out of order; callers that
// need ordering between two Requests must Wait on the first before
// Enqueueing the second.
type Queue struct {
	queue hal.Queue

	tasks chan task
	wg    sync.WaitGroup

	mu             sync.Mutex
	pendingImages  []hal.ImageBarrier
	pendingBuffers []hal.BufferBarrier
}

type task struct {
	req    Request
	future *Future
}

// NewQueue starts workers goroutines, each pulling Requests off a shared
// channel and issuing them against queue. workers must be at least 1.
func NewQueue(queue hal.Queue, workers int) *Queue {
	if workers < 1 {
		workers = 1
	}
	q := &Queue{
		queue: queue,
		tasks: make(chan task),
	}
	q.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go q.worker()
	}
	return q
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for t := range q.tasks {
		q.execute(t)
	}
}

func (q *Queue) execute(t task) {
	var err error
	if t.req.Destination.IsImage() {
		err = q.queue.WriteImage(t.req.Destination.Image, t.req.Destination.ImageRegion, t.req.Data)
	} else {
		err = q.queue.WriteBuffer(t.req.Destination.Buffer, t.req.Destination.BufferOffset, t.req.Data)
	}

	if err == nil {
		if imgBarrier, bufBarrier := t.req.barrier(); imgBarrier != nil || bufBarrier != nil {
			q.mu.Lock()
			if imgBarrier != nil {
				q.pendingImages = append(q.pendingImages, *imgBarrier)
			}
			if bufBarrier != nil {
				q.pendingBuffers = append(q.pendingBuffers, *bufBarrier)
			}
			q.mu.Unlock()
		}
	}

	t.future.settle(err)
}

// Enqueue submits req for upload and returns a Future that settles once
// the copy has landed (or failed). req.Data is copied host-side before
// the worker goroutine runs, so it's safe to reuse req.Data's backing
// array as soon as Enqueue returns.
func (q *Queue) Enqueue(req Request) (*Future, error) {
	if err := req.Destination.validate(len(req.Data)); err != nil {
		return nil, err
	}
	data := make([]byte, len(req.Data))
	copy(data, req.Data)
	req.Data = data

	future := newFuture()
	q.tasks <- task{req: req, future: future}
	return future, nil
}

// FlushBarriers drains every queue-family ownership transfer collected
// from completed Requests and records them on encoder in one Barrier
// call. Callers should invoke this from their own single-threaded
// command-recording code, between collecting completed uploads and
// issuing passes that depend on them — never from a worker goroutine.
func (q *Queue) FlushBarriers(encoder hal.CommandEncoder) {
	q.mu.Lock()
	images, buffers := q.pendingImages, q.pendingBuffers
	q.pendingImages, q.pendingBuffers = nil, nil
	q.mu.Unlock()

	if len(images) == 0 && len(buffers) == 0 {
		return
	}
	encoder.Barrier(images, buffers)
}

// Close stops the worker pool, waiting for in-flight Requests to finish.
// Close must not be called concurrently with Enqueue.
func (q *Queue) Close() error {
	close(q.tasks)
	q.wg.Wait()
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pendingImages) != 0 || len(q.pendingBuffers) != 0 {
		return fmt.Errorf("upload: queue closed with %d image and %d buffer barriers never flushed",
			len(q.pendingImages), len(q.pendingBuffers))
	}
	return nil
}
