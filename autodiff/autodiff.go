// Copyright 2025 Weft ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation as
// a backend decorator.
//
//	ad := autodiff.New(cpu.New())
//	ad.Tape().StartRecording()
//	y := x.Mul(x)
//	grads := autodiff.Backward(y, ad)
package autodiff

import (
	"github.com/weft-ml/weft/internal/autodiff"
	"github.com/weft-ml/weft/internal/tensor"
)

// Backend decorates an inner backend with gradient tracking.
type Backend[B tensor.Backend] = autodiff.Backend[B]

// GradientTape records operations for the backward pass.
type GradientTape = autodiff.GradientTape

// BackwardCapable is a backend that can run a backward pass.
type BackwardCapable = autodiff.BackwardCapable

// New wraps a backend in an autodiff decorator with a fresh tape.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// NewGradientTape creates a new, non-recording tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// Backward seeds t with a ones gradient and walks the backend's tape
// in reverse, returning the accumulated gradient per raw storage.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
