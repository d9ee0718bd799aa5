// Package autodiff implements reverse-mode automatic differentiation as a
// backend decorator.
//
// Backend[B] wraps any tensor.Backend, forwards every operation to it, and
// records the operation on a GradientTape when the tape is recording. Walking
// the tape in reverse yields a gradient per RawTensor, keyed by pointer
// identity, so a parameter whose storage is reached through several layers
// accumulates one summed gradient.
//
// Usage:
//
//	ad := autodiff.New(cpu.New())
//	ad.Tape().StartRecording()
//	// ... forward pass ...
//	grads := loss.Backward()
package autodiff

import (
	"fmt"

	"github.com/weft-ml/weft/internal/autodiff/ops"
	"github.com/weft-ml/weft/internal/tensor"
)

// Backend decorates an inner backend with gradient tracking.
type Backend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New wraps the given backend in an autodiff decorator with a fresh,
// non-recording tape.
func New[B tensor.Backend](backend B) *Backend[B] {
	return &Backend[B]{inner: backend, tape: NewGradientTape()}
}

// Tape returns the gradient tape for recording control and inspection.
func (b *Backend[B]) Tape() *GradientTape { return b.tape }

// Inner returns the wrapped backend.
func (b *Backend[B]) Inner() B { return b.inner }

// Name returns the decorated backend name.
func (b *Backend[B]) Name() string { return "Autodiff(" + b.inner.Name() + ")" }

// Device returns the compute device of the wrapped backend.
func (b *Backend[B]) Device() tensor.Device { return b.inner.Device() }

// Add performs element-wise addition and records the operation.
func (b *Backend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	// Pin both operands so the inner backend cannot take its in-place
	// fast path; a mutated input would corrupt recorded operations.
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *Backend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *Backend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, result))
	return result
}

// Div performs element-wise division and records the operation.
func (b *Backend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, result))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *Backend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, result))
	return result
}

// Reshape reshapes a tensor and records the operation. Recording is
// required even for pure shape changes: the inner backend returns a new
// tensor, and without a ReshapeOp the gradient would stop at that new
// tensor instead of reaching the original storage.
func (b *Backend[B]) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Reshape(x, shape)
	b.tape.Record(ops.NewReshapeOp(x, result))
	return result
}

// Transpose permutes tensor axes and records the operation with the
// resolved permutation, so the backward pass can apply its inverse.
func (b *Backend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	ndim := len(x.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(x, axes...)
	b.tape.Record(ops.NewTransposeOp(x, result, axes))
	return result
}

// AddScalar adds a scalar to every element and records the operation.
func (b *Backend[B]) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.AddScalar(x, scalar)
	b.tape.Record(ops.NewAddScalarOp(x, result))
	return result
}

// MulScalar multiplies every element by a scalar and records the operation.
func (b *Backend[B]) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.MulScalar(x, scalar)
	b.tape.Record(ops.NewMulScalarOp(x, result, scalar))
	return result
}

// Exp computes the element-wise exponential and records the operation.
func (b *Backend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Exp(x)
	b.tape.Record(ops.NewExpOp(x, result))
	return result
}

// Log computes the element-wise natural logarithm and records the operation.
func (b *Backend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Log(x)
	b.tape.Record(ops.NewLogOp(x, result))
	return result
}

// Softmax applies softmax along dim and records the operation.
func (b *Backend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Softmax(x, dim)
	b.tape.Record(ops.NewSoftmaxOp(x, result, dim))
	return result
}

// Sum reduces a tensor to a scalar sum and records the operation.
func (b *Backend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, result))
	return result
}

// SumDim sums along a dimension and records the operation.
func (b *Backend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.SumDim(x, dim, keepDim)
	b.tape.Record(ops.NewSumDimOp(x, result, dim, keepDim))
	return result
}

// Mean reduces a tensor to its scalar mean and records the operation.
func (b *Backend[B]) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Mean(x)
	b.tape.Record(ops.NewMeanOp(x, result))
	return result
}

// Argmax returns index extrema. Integer outputs carry no gradient, so the
// operation is never recorded.
func (b *Backend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Argmax(x, dim)
}

// ReLU applies the rectified linear unit and records the operation.
// The wrapped backend must implement tensor.ReLUBackend.
func (b *Backend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	inner, ok := any(b.inner).(tensor.ReLUBackend)
	if !ok {
		panic(fmt.Sprintf("backend %s does not support ReLU", b.inner.Name()))
	}
	result := inner.ReLU(x)
	b.tape.Record(ops.NewReLUOp(x, result))
	return result
}

// Sigmoid applies the logistic function and records the operation.
// The wrapped backend must implement tensor.SigmoidBackend.
func (b *Backend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	inner, ok := any(b.inner).(tensor.SigmoidBackend)
	if !ok {
		panic(fmt.Sprintf("backend %s does not support Sigmoid", b.inner.Name()))
	}
	result := inner.Sigmoid(x)
	b.tape.Record(ops.NewSigmoidOp(x, result))
	return result
}

// Tanh applies the hyperbolic tangent and records the operation.
// The wrapped backend must implement tensor.TanhBackend.
func (b *Backend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	inner, ok := any(b.inner).(tensor.TanhBackend)
	if !ok {
		panic(fmt.Sprintf("backend %s does not support Tanh", b.inner.Name()))
	}
	result := inner.Tanh(x)
	b.tape.Record(ops.NewTanhOp(x, result))
	return result
}

// CrossEntropy computes the fused softmax + NLL loss and records the
// operation. Targets hold class indices and are not differentiated.
// The wrapped backend must implement tensor.CrossEntropyBackend.
func (b *Backend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	defer logits.ForceNonUnique()()

	inner, ok := any(b.inner).(tensor.CrossEntropyBackend)
	if !ok {
		panic(fmt.Sprintf("backend %s does not support CrossEntropy", b.inner.Name()))
	}
	result := inner.CrossEntropy(logits, targets)
	b.tape.Record(ops.NewCrossEntropyOp(logits, targets, result))
	return result
}
