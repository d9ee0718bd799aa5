package cpu

import (
	"fmt"
	"math"

	"github.com/weft-ml/weft/internal/tensor"
)

// Sum reduces all elements to a single-element tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}
	result := newRawOrPanic("sum", tensor.Shape{1}, cpu.device)
	var sum float32
	for _, v := range x.AsFloat32() {
		sum += v
	}
	result.AsFloat32()[0] = sum
	return result
}

// Mean reduces all elements to their mean as a single-element tensor.
func (cpu *CPUBackend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.Sum(x)
	result.AsFloat32()[0] /= float32(x.NumElements())
	return result
}

// SumDim sums along one dimension. With keepDim the reduced dimension
// stays with size 1, otherwise it is removed.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for shape %v", dim, shape))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}

	outShape := make(tensor.Shape, 0, ndim)
	for d, size := range shape {
		if d == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, size)
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result := newRawOrPanic("sumdim", outShape, cpu.device)
	src := x.AsFloat32()
	dst := result.AsFloat32()

	outer, size, inner := splitAt(shape, dim)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var sum float32
			base := o * size * inner
			for k := 0; k < size; k++ {
				sum += src[base+k*inner+i]
			}
			dst[o*inner+i] = sum
		}
	}
	return result
}

// Argmax returns int32 indices of the maximum along a dimension. The
// reduced dimension is removed from the result shape.
func (cpu *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("argmax: dimension %d out of range for shape %v", dim, shape))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}

	outShape := make(tensor.Shape, 0, ndim-1)
	for d, size := range shape {
		if d != dim {
			outShape = append(outShape, size)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, tensor.Int32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("argmax: %v", err))
	}

	src := x.AsFloat32()
	dst := result.AsInt32()

	outer, size, inner := splitAt(shape, dim)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o * size * inner
			best := src[base+i]
			bestIdx := int32(0)
			for k := 1; k < size; k++ {
				if v := src[base+k*inner+i]; v > best {
					best = v
					bestIdx = int32(k)
				}
			}
			dst[o*inner+i] = bestIdx
		}
	}
	return result
}

// Softmax computes softmax along a dimension with the max-subtraction
// trick for numerical stability.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("softmax: dimension %d out of range for shape %v", dim, shape))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("softmax: unsupported dtype %s", x.DType()))
	}

	result := newRawOrPanic("softmax", shape, cpu.device)
	src := x.AsFloat32()
	dst := result.AsFloat32()

	outer, size, inner := splitAt(shape, dim)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o * size * inner
			maxVal := src[base+i]
			for k := 1; k < size; k++ {
				if v := src[base+k*inner+i]; v > maxVal {
					maxVal = v
				}
			}
			var sumExp float32
			for k := 0; k < size; k++ {
				e := float32(math.Exp(float64(src[base+k*inner+i] - maxVal)))
				dst[base+k*inner+i] = e
				sumExp += e
			}
			for k := 0; k < size; k++ {
				dst[base+k*inner+i] /= sumExp
			}
		}
	}
	return result
}

// splitAt factors a shape around dimension dim into (outer, size, inner)
// so flat index = (o*size + k)*inner + i.
func splitAt(shape tensor.Shape, dim int) (outer, size, inner int) {
	outer, inner = 1, 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	return outer, shape[dim], inner
}
