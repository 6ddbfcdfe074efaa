// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package forge

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/forge/descriptorset"
	"github.com/gogpu/forge/dynresource"
	"github.com/gogpu/forge/frame"
	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/lookup"
	"github.com/gogpu/forge/upload"
)

// Tables bundles one lookup.Table per interned resource kind a Context
// manages. Each is independent — a pipeline's dependency on its root
// signature and shaders is expressed as Handle values passed into
// Pipelines.GetOrCreate, not by this struct.
type Tables struct {
	Shaders              *lookup.Table[hal.Shader]
	DescriptorSetLayouts *lookup.Table[hal.DescriptorSetLayout]
	RootSignatures       *lookup.Table[hal.RootSignature]
	Renderpasses         *lookup.Table[hal.Renderpass]
	Pipelines            *lookup.Table[hal.Pipeline]
	Framebuffers         *lookup.Table[hal.Framebuffer]
	Samplers             *lookup.Table[hal.Sampler]
}

func newTables(maxFramesInFlight uint32) *Tables {
	return &Tables{
		Shaders:              lookup.NewTable[hal.Shader](maxFramesInFlight),
		DescriptorSetLayouts: lookup.NewTable[hal.DescriptorSetLayout](maxFramesInFlight),
		RootSignatures:       lookup.NewTable[hal.RootSignature](maxFramesInFlight),
		Renderpasses:         lookup.NewTable[hal.Renderpass](maxFramesInFlight),
		Pipelines:            lookup.NewTable[hal.Pipeline](maxFramesInFlight),
		Framebuffers:         lookup.NewTable[hal.Framebuffer](maxFramesInFlight),
		Samplers:             lookup.NewTable[hal.Sampler](maxFramesInFlight),
	}
}

func (t *Tables) onFrameComplete() {
	t.Shaders.OnFrameComplete()
	t.DescriptorSetLayouts.OnFrameComplete()
	t.RootSignatures.OnFrameComplete()
	t.Renderpasses.OnFrameComplete()
	t.Pipelines.OnFrameComplete()
	t.Framebuffers.OnFrameComplete()
	t.Samplers.OnFrameComplete()
}

func (t *Tables) destroy(logger *slog.Logger) {
	t.Pipelines.Destroy(logger)
	t.Framebuffers.Destroy(logger)
	t.Renderpasses.Destroy(logger)
	t.RootSignatures.Destroy(logger)
	t.DescriptorSetLayouts.Destroy(logger)
	t.Shaders.Destroy(logger)
	t.Samplers.Destroy(logger)
}

// Options configures a Context.
type Options struct {
	// Device and Queues are the opened HAL device this Context drives.
	// Construct them with a hal backend's Adapter.Open.
	Device hal.Device
	Queues map[hal.QueueType]hal.Queue

	// MaxFramesInFlight bounds how long a dropped resource's destruction
	// is deferred and how many frames descriptorset.Manager double-buffers
	// across. Defaults to 2 if zero.
	MaxFramesInFlight uint32

	// UploadWorkers sizes the background upload.Queue's worker pool.
	// Defaults to 1 if zero.
	UploadWorkers int

	// DescriptorSetConfig parameterizes the descriptor-set pool. Zero
	// value is usable as-is: a zero FramesInFlight takes MaxFramesInFlight,
	// and see descriptorset.Config for its own defaults.
	DescriptorSetConfig descriptorset.Config

	Logger *slog.Logger
}

func (o Options) maxFramesInFlight() uint32 {
	if o.MaxFramesInFlight == 0 {
		return 2
	}
	return o.MaxFramesInFlight
}

func (o Options) uploadWorkers() int {
	if o.UploadWorkers == 0 {
		return 1
	}
	return o.UploadWorkers
}

// Context is the process-level composition root: one opened Device, its
// resource-lifetime infrastructure (dynresource managers, lookup tables,
// descriptor-set manager), a background upload queue, and the per-frame
// feature pipeline. Every piece of orchestration state this module keeps
// lives on a Context; none of it is package-level.
//
// A Context is built once by the caller via NewContext and torn down
// deterministically via Close. It holds no singleton or global state.
type Context struct {
	device hal.Device
	queues map[hal.QueueType]hal.Queue

	Resources     *dynresource.ManagerSet
	Tables        *Tables
	DescriptorSet *descriptorset.Manager
	Upload        *upload.Queue
	Frame         *frame.Pipeline

	pool *frame.Pool

	maxFramesInFlight uint32
	logger            *slog.Logger

	mu        sync.Mutex
	frameIdx  uint64
	closeOnce sync.Once
	closeErr  error
}

// NewContext opens the orchestration state this module needs against an
// already-opened HAL device. The caller retains ownership of opts.Device
// and is responsible for calling Adapter.Open before this and
// Instance.Destroy after Context.Close.
func NewContext(opts Options) (*Context, error) {
	if opts.Device == nil {
		return nil, NewValidationError("forge", "Device", "NewContext requires a non-nil Device")
	}
	transferQueue, ok := opts.Queues[hal.QueueTypeTransfer]
	if !ok {
		return nil, NewValidationError("forge", "Queues", "NewContext requires a transfer queue")
	}
	graphicsQueue := opts.Queues[hal.QueueTypeGraphics]

	logger := opts.Logger
	if logger == nil {
		logger = hal.Logger()
	}

	maxFIF := opts.maxFramesInFlight()
	pool := frame.NewPool(opts.uploadWorkers())

	dsCfg := opts.DescriptorSetConfig
	if dsCfg.FramesInFlight == 0 {
		dsCfg.FramesInFlight = maxFIF
	}

	ctx := &Context{
		device:            opts.Device,
		queues:            opts.Queues,
		Resources:         dynresource.NewManagerSet(maxFIF),
		Tables:            newTables(maxFIF),
		DescriptorSet:     descriptorset.NewManager(opts.Device, graphicsQueue, dsCfg),
		Upload:            upload.NewQueue(transferQueue, opts.uploadWorkers()),
		Frame:             frame.NewPipeline(pool),
		pool:              pool,
		maxFramesInFlight: maxFIF,
		logger:            logger,
	}
	return ctx, nil
}

// Device returns the HAL device this Context was opened against.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the queue of the given type, or nil if the device wasn't
// opened with one.
func (c *Context) Queue(qt hal.QueueType) hal.Queue { return c.queues[qt] }

// FrameIndex returns the number of frames advanced so far. It is
// incremented by AdvanceFrame and does not wrap.
func (c *Context) FrameIndex() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameIdx
}

// AdvanceFrame reclaims dropped resources and table entries whose
// retention window has elapsed, and increments the frame counter. Callers
// invoke this exactly once per frame, after that frame's command buffers
// have been submitted. It does not advance the descriptor-set manager:
// DescriptorSet.Update is a separate call.
func (c *Context) AdvanceFrame() {
	c.mu.Lock()
	c.frameIdx++
	c.mu.Unlock()

	c.Resources.OnFrameComplete()
	c.Tables.onFrameComplete()
}

// ErrWaitIdleTimeout is returned by WaitIdleTimeout when the device does
// not go idle before the deadline.
var ErrWaitIdleTimeout = fmt.Errorf("forge: WaitIdle did not complete before the deadline")

// WaitIdleTimeout waits for the device to go idle, same as calling
// c.Device().WaitIdle() directly, but gives up after timeout instead of
// blocking indefinitely. Used by callers that need a bounded teardown (a
// test harness, a hot-reload path) rather than Close's unbounded wait.
//
// The underlying WaitIdle call is not cancelable, so on timeout its
// goroutine is left to finish in the background; a caller that times out
// here should not reuse the device.
func (c *Context) WaitIdleTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = c.device.WaitIdle()
		close(done)
	}()

	if !highResWait(done, timeout) {
		return ErrWaitIdleTimeout
	}
	return waitErr
}

// Close waits for the device to go idle, tears down every resource this
// Context owns, and stops the upload worker pool and frame worker pool.
// Close is idempotent; only the first call's error is returned.
func (c *Context) Close() error {
	c.closeOnce.Do(func() {
		if err := c.device.WaitIdle(); err != nil {
			c.closeErr = fmt.Errorf("forge: WaitIdle during Close: %w", err)
		}
		if err := c.Upload.Close(); err != nil && c.closeErr == nil {
			c.closeErr = err
		}
		c.pool.Close()
		c.DescriptorSet.Destroy()
		c.Tables.destroy(c.logger)
		c.Resources.Destroy(c.logger)
	})
	return c.closeErr
}
