// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package descriptorset

import (
	"testing"

	"github.com/gogpu/forge/core"
)

func TestHandle_CloneReleaseOnlyDropsAtZero(t *testing.T) {
	ids := core.NewDescriptorSetIdentityManager()
	dropCh := make(chan core.DescriptorSetID, 4)

	state := &slotState{id: ids.Alloc(), dropTx: dropCh}
	state.refCount.Store(1)
	h := Handle{state: state}

	clone := h.Clone()
	clone.Release()
	select {
	case <-dropCh:
		t.Fatal("release of one of two references should not drop yet")
	default:
	}

	h.Release()
	select {
	case got := <-dropCh:
		if got != state.id {
			t.Errorf("dropped id = %v, want %v", got, state.id)
		}
	default:
		t.Fatal("release of the last reference should enqueue a drop")
	}
}

func TestHandle_IsValid(t *testing.T) {
	var zero Handle
	if zero.IsValid() {
		t.Error("zero Handle should not be valid")
	}

	h := Handle{state: &slotState{}}
	if !h.IsValid() {
		t.Error("handle with a state should be valid")
	}
}
