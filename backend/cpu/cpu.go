// Copyright 2025 Weft ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure-Go CPU compute backend.
package cpu

import (
	"github.com/weft-ml/weft/internal/backend/cpu"
)

// CPUBackend executes tensor operations on the CPU.
type CPUBackend = cpu.CPUBackend

// New creates a CPU backend.
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *CPUBackend {
	return cpu.New()
}
