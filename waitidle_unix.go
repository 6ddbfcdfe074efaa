// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build !windows

package forge

import (
	"time"

	"golang.org/x/sys/unix"
)

// highResWait blocks until done is closed or timeout elapses, reporting
// whether done fired first. It sleeps in short unix.Nanosleep increments
// rather than a single time.Sleep/time.After, so a WaitIdleTimeout deadline
// is honored to sub-millisecond precision instead of whatever granularity
// the Go runtime's timer wheel happens to round a single long sleep to.
func highResWait(done <-chan struct{}, timeout time.Duration) bool {
	const tick = 200 * time.Microsecond

	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-done:
			return true
		default:
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}

		sleep := tick
		if remaining < sleep {
			sleep = remaining
		}
		ts := unix.NsecToTimespec(sleep.Nanoseconds())
		_ = unix.Nanosleep(&ts, nil)
	}
}
