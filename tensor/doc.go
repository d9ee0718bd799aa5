// Copyright 2025 Weft ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in the
// Weft ML framework.
//
// Core types:
//   - Tensor[T, B]: generic type-safe tensor over a compute backend
//   - RawTensor: reference-counted storage, the identity unit for
//     parameter sharing and gradient accumulation
//   - Backend: interface compute backends implement
//   - Shape, DataType, Device: core definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor
