// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dynresource

import (
	"sync"
	"testing"
)

type fakeResource struct {
	id        int
	destroyed bool
}

func (f *fakeResource) Destroy() { f.destroyed = true }

func TestResourceArc_CloneAndRelease(t *testing.T) {
	mgr := NewManager[*fakeResource](2)
	alloc := mgr.CreateAllocator()

	res := &fakeResource{id: 1}
	arc := alloc.Insert(res)
	if mgr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", mgr.Len())
	}

	clone := arc.Clone()
	arc.Release()
	if res.destroyed {
		t.Fatal("resource destroyed while clone still holds a reference")
	}

	clone.Release()
	// The first call drains the drop; the ring then holds it for two more.
	mgr.OnFrameComplete()
	mgr.OnFrameComplete()
	mgr.OnFrameComplete()
	if !res.destroyed {
		t.Error("resource should be destroyed after ring has cycled past the drop")
	}
}

func TestResourceArc_Index(t *testing.T) {
	mgr := NewManager[*fakeResource](1)
	alloc := mgr.CreateAllocator()

	a0 := alloc.Insert(&fakeResource{id: 0})
	a1 := alloc.Insert(&fakeResource{id: 1})

	if a0.Index() == a1.Index() {
		t.Error("distinct inserts from the same allocator must get distinct indices")
	}
}

func TestWeakResourceArc_UpgradeFailsAfterRelease(t *testing.T) {
	mgr := NewManager[*fakeResource](1)
	alloc := mgr.CreateAllocator()

	arc := alloc.Insert(&fakeResource{})
	weak := arc.Downgrade()

	upgraded, ok := weak.Upgrade()
	if !ok {
		t.Fatal("Upgrade should succeed while the strong arc is alive")
	}
	upgraded.Release()

	arc.Release()

	if _, ok := weak.Upgrade(); ok {
		t.Error("Upgrade should fail once the last strong reference is released")
	}
}

func TestWeakResourceArc_UpgradeKeepsResourceAliveAcrossFrames(t *testing.T) {
	mgr := NewManager[*fakeResource](3)
	alloc := mgr.CreateAllocator()

	res := &fakeResource{}
	arc := alloc.Insert(res)
	weak := arc.Downgrade()

	upgraded, ok := weak.Upgrade()
	if !ok {
		t.Fatal("Upgrade failed")
	}
	arc.Release()

	mgr.OnFrameComplete()
	mgr.OnFrameComplete()
	if res.destroyed {
		t.Fatal("resource destroyed while upgraded arc still holds a reference")
	}

	upgraded.Release()
	// One call drains the drop, then three more cycle the ring past it.
	for i := 0; i < 4; i++ {
		mgr.OnFrameComplete()
	}
	if !res.destroyed {
		t.Error("resource should be destroyed once all references are released and the ring cycles")
	}
}

func TestAllocator_ConcurrentInsert(t *testing.T) {
	mgr := NewManager[*fakeResource](2)
	const goroutines = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		alloc := mgr.CreateAllocator()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				alloc.Insert(&fakeResource{})
			}
		}()
	}
	wg.Wait()

	if mgr.Len() != goroutines*20 {
		t.Errorf("Len() = %d, want %d", mgr.Len(), goroutines*20)
	}
}
