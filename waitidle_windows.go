// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package forge

import (
	"time"

	"golang.org/x/sys/windows"
)

// highResWait blocks until done is closed or timeout elapses, reporting
// whether done fired first. It waits on a waitable timer created with
// CREATE_WAITABLE_TIMER_HIGH_RESOLUTION, the same low-level event-handle
// idiom the dx12 backend uses for fence waits, rather than time.After's
// coarser multimedia-timer-resolution-dependent tick.
func highResWait(done <-chan struct{}, timeout time.Duration) bool {
	const timerAllAccess = 0x1F0003 // TIMER_ALL_ACCESS, per the Windows SDK
	timer, err := windows.CreateWaitableTimerEx(nil, nil,
		windows.CREATE_WAITABLE_TIMER_HIGH_RESOLUTION, timerAllAccess)
	if err != nil {
		return highResWaitFallback(done, timeout)
	}
	defer windows.CloseHandle(timer)

	// Negative due time is relative, in 100ns units.
	dueTime := -int64(timeout / 100)
	if err := windows.SetWaitableTimer(timer, &dueTime, 0, 0, nil, false); err != nil {
		return highResWaitFallback(done, timeout)
	}

	fired := make(chan bool, 1)
	go func() {
		_, err := windows.WaitForSingleObject(timer, windows.INFINITE)
		fired <- err == nil
	}()

	select {
	case <-done:
		return true
	case <-fired:
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
}

func highResWaitFallback(done <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
