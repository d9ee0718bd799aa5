package cpu

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Reshape returns a tensor with the same elements and a new shape.
// The data is copied: the result is new storage, so the autodiff tape
// can treat input and output as distinct nodes.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			t.Shape(), t.NumElements(), newShape, newShape.NumElements()))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		copy(result.AsFloat32(), t.AsFloat32())
	case tensor.Int32:
		copy(result.AsInt32(), t.AsInt32())
	case tensor.Int64:
		copy(result.AsInt64(), t.AsInt64())
	case tensor.Uint8:
		copy(result.AsUint8(), t.AsUint8())
	default:
		panic(fmt.Sprintf("reshape: unsupported dtype %s", t.DType()))
	}
	return result
}

// Transpose permutes the tensor's dimensions, copying the data into
// contiguous row-major order. With no axes, dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: got %d axes for %dD tensor", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes %v for shape %v", axes, shape))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	result := newRawOrPanic("transpose", outShape, cpu.device)
	src := t.AsFloat32()
	dst := result.AsFloat32()

	inStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	n := t.NumElements()
	for i := 0; i < n; i++ {
		// Decompose output index, map coordinates through the permutation.
		rem := i
		srcIdx := 0
		for d := 0; d < ndim; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += coord * inStrides[axes[d]]
		}
		dst[i] = src[srcIdx]
	}
	return result
}
