// Copyright 2025 Weft ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"iter"

	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/tensor"
)

// Registry errors.
var (
	// ErrNotFound reports an unresolvable parameter path or layer slot.
	ErrNotFound = nn.ErrNotFound
	// ErrShapeMismatch reports incompatible declared or inferred shapes.
	ErrShapeMismatch = nn.ErrShapeMismatch
	// ErrAlreadyMaterialized reports a tying request after storage
	// creation.
	ErrAlreadyMaterialized = nn.ErrAlreadyMaterialized
)

// Module is the base interface for all neural network components.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named trainable tensor; pointer identity is storage
// identity.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a parameter around an initialized tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Linear is a fully connected layer, eager or lazily materialized.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a Linear layer with both widths known.
//
//	layer := nn.NewLinear(784, 128, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLazyLinear creates a Linear layer declared by output width only;
// the input width is inferred from the first input.
//
//	layer := nn.NewLazyLinear(128, backend)
func NewLazyLinear[B tensor.Backend](outFeatures int, backend B) *Linear[B] {
	return nn.NewLazyLinear(outFeatures, backend)
}

// Sequential chains modules; its Tie method declares weight sharing
// between slots.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential over the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// NamedParameters iterates a module's parameters depth-first with
// fully qualified dotted names, yielding each storage exactly once.
func NamedParameters[B tensor.Backend](m Module[B]) iter.Seq2[string, *Parameter[B]] {
	return nn.NamedParameters(m)
}

// ParameterByPath resolves a dotted path like "2.weight". Every alias
// path of a tied parameter resolves.
func ParameterByPath[B tensor.Backend](m Module[B], path string) (*Parameter[B], error) {
	return nn.ParameterByPath(m, path)
}

// Activations.

// ReLU applies f(x) = max(0, x).
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid applies the logistic function.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a Sigmoid activation layer.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Tanh applies the hyperbolic tangent.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a Tanh activation layer.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// Loss functions.

// CrossEntropyLoss is the fused softmax + NLL classification loss.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// NewCrossEntropyLoss creates a cross-entropy loss function.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss[B]()
}

// MSELoss is mean squared error for regression targets.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates an MSE loss function.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELoss[B]()
}

// Initialization.

// Xavier initializes weights with Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros creates a zero-filled float32 tensor.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones creates a one-filled float32 tensor.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}

// Randn creates a float32 tensor drawn from N(0, 1).
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Randn(shape, backend)
}
