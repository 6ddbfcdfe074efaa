// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package upload is the boundary this module exposes to whatever loads
// asset bytes (asset-importer plumbing, shader-source loading — both out
// of this module's scope) and wants them resident on the GPU. It accepts
// a (staging-source, destination, queue-ownership-transfer policy) tuple
// per Request and signals completion through a Future a caller polls,
// rather than blocking: the render graph does not wait on an upload
// mid-frame, it waits on the Future before enqueueing a pass that
// depends on the result.
//
// Queue runs the actual host-to-device copy (Device.Queue.WriteBuffer /
// WriteImage) on a small worker pool, since those calls are the part that
// can legitimately take a while on a real backend. Queue-family ownership
// transfers are handled separately, through FlushBarriers: a barrier is
// something only the render graph's single recording thread should be
// issuing, the same discipline graph.Plan's own barrier planning follows,
// so Queue only collects the transfer each completed Request asked for
// and hands the list back for the caller to record on its own encoder.
package upload
