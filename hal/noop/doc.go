// Package noop implements a deterministic hal.Backend that performs no
// real GPU work. Every Create* call succeeds and returns a handle backed
// by an in-process struct; command recording is a pure bookkeeping
// exercise with no device-side effect.
//
// noop exists to exercise the orchestration layers above the HAL boundary
// (dynresource, lookup, descriptorset, graph, frame) without a real GPU,
// and as the reference implementation a real backend's test suite is
// expected to match behaviorally.
package noop
