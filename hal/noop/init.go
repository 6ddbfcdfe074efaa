// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package noop

import "github.com/gogpu/forge/hal"

func init() {
	hal.RegisterBackend(API{})
}
