// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package noop

import (
	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/types"
)

// API implements hal.Backend for the noop backend.
type API struct{}

// Variant reports the backend type identifier.
func (API) Variant() types.Backend { return types.BackendEmpty }

// CreateInstance always succeeds and returns a placeholder Instance.
func (API) CreateInstance(_ types.InstanceDescriptor) (hal.Instance, error) {
	return &Instance{}, nil
}

// Instance implements hal.Instance for the noop backend.
type Instance struct{}

// EnumerateAdapters returns a single default noop adapter.
func (i *Instance) EnumerateAdapters() ([]hal.Adapter, error) {
	return []hal.Adapter{&Adapter{}}, nil
}

func (i *Instance) Destroy() {}

// Adapter implements hal.Adapter for the noop backend.
type Adapter struct{}

func (a *Adapter) Info() hal.AdapterInfo {
	return hal.AdapterInfo{
		Name:       "Noop Adapter",
		DriverInfo: "no-operation backend for testing",
		IsSoftware: true,
	}
}

// Open opens a Device with one queue of each QueueType, all backed by the
// same noop implementation.
func (a *Adapter) Open() (hal.OpenDevice, error) {
	d := &Device{}
	q := &Queue{}
	return hal.OpenDevice{
		Device: d,
		Queues: map[hal.QueueType]hal.Queue{
			hal.QueueTypeGraphics: q,
			hal.QueueTypeCompute:  q,
			hal.QueueTypeTransfer: q,
		},
	}, nil
}

func (a *Adapter) Destroy() {}
