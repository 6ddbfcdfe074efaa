// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"sync/atomic"
	"testing"
)

func TestPool_RunExecutesEveryTaskExactlyOnce(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	const n = 100
	var seen [n]int32
	pool.Run(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})

	for i, count := range seen {
		if count != 1 {
			t.Fatalf("task %d ran %d times, want 1", i, count)
		}
	}
}

func TestPool_RunWithZeroTasksReturnsImmediately(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	pool.Run(0, func(int) {
		t.Fatal("fn must not be called when n == 0")
	})
}

func TestPool_SurvivesSingleWorker(t *testing.T) {
	pool := NewPool(1)
	defer pool.Close()

	var total int32
	pool.Run(10, func(int) {
		atomic.AddInt32(&total, 1)
	})
	if total != 10 {
		t.Fatalf("total = %d, want 10", total)
	}
}
