// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package descriptorset allocates, writes, mutates, and frees descriptor
// sets keyed by layout, with per-frame double-buffering so a mutation
// scheduled during frame F is visible to work submitted on frame F while
// frames F-1 .. F-N still read the previous contents.
//
// A Manager owns one Pool per distinct hal.DescriptorSetLayout. A Pool
// allocates logical slots from a slab (core.DescriptorSetID: index plus
// generation) and groups them into fixed-size chunks; each chunk owns a
// hal.DescriptorSetArray sized chunkSize * (framesInFlight+1) so that every
// logical slot maps to one physical descriptor set per frame-in-flight
// index. For layouts with an "internal buffer" binding (a per-descriptor
// byte range the caller writes host-side rather than binding an external
// hal.Buffer), the chunk also allocates a uniform/storage buffer whose
// stride is the declared per-element size rounded up to the device's
// minimum uniform/storage buffer offset alignment.
//
// Handle is the reference-counted logical descriptor set: cloning it bumps
// a refcount, dropping the last reference enqueues the slot for a deferred
// free tagged with the frame-in-flight index at which it becomes
// reclaimable (current + framesInFlight). Manager.Update drains pending
// writes and frees once per frame and advances the frame-in-flight index.
//
// DynamicSet builds up partial writes against a Handle and commits them
// atomically, so a caller assembling a material instance across several
// slot assignments only schedules one merged write per frame.
package descriptorset
