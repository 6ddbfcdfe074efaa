package hal_test

import (
	"testing"

	"github.com/gogpu/forge/hal"
	_ "github.com/gogpu/forge/hal/noop" // registers the noop backend
	"github.com/gogpu/forge/types"
)

type mockBackend struct {
	variant types.Backend
}

func (m *mockBackend) Variant() types.Backend { return m.variant }
func (m *mockBackend) CreateInstance(_ types.InstanceDescriptor) (hal.Instance, error) {
	return nil, nil //nolint:nilnil
}

func TestNoopBackendRegistered(t *testing.T) {
	backend, ok := hal.GetBackend(types.BackendEmpty)
	if !ok {
		t.Fatal("noop backend should be registered automatically")
	}
	if backend.Variant() != types.BackendEmpty {
		t.Errorf("Variant() = %v, want BackendEmpty", backend.Variant())
	}
}

func TestRegisterBackendReplacement(t *testing.T) {
	first := &mockBackend{variant: types.BackendMetal}
	second := &mockBackend{variant: types.BackendMetal}
	hal.RegisterBackend(first)
	hal.RegisterBackend(second)

	backend, ok := hal.GetBackend(types.BackendMetal)
	if !ok {
		t.Fatal("expected backend to be registered")
	}
	if backend.Variant() != types.BackendMetal {
		t.Errorf("Variant() = %v, want BackendMetal", backend.Variant())
	}
	if backend != hal.Backend(second) {
		t.Error("GetBackend did not return the most recently registered backend")
	}
}

func TestGetBackendNotRegistered(t *testing.T) {
	backend, ok := hal.GetBackend(types.BackendGL)
	if ok {
		t.Error("expected GetBackend to return false for an unregistered backend")
	}
	if backend != nil {
		t.Error("expected nil backend for an unregistered backend")
	}
}

func TestAvailableBackendsIncludesNoop(t *testing.T) {
	for _, b := range hal.AvailableBackends() {
		if b == types.BackendEmpty {
			return
		}
	}
	t.Error("expected BackendEmpty (noop) to be in available backends")
}

func TestConcurrentRegistryAccess(t *testing.T) {
	done := make(chan struct{}, 2)

	go func() {
		for i := 0; i < 100; i++ {
			hal.RegisterBackend(&mockBackend{variant: types.Backend(i % 6)})
		}
		done <- struct{}{}
	}()

	go func() {
		for i := 0; i < 100; i++ {
			_ = hal.AvailableBackends()
			_, _ = hal.GetBackend(types.Backend(i % 6))
		}
		done <- struct{}{}
	}()

	<-done
	<-done
}
