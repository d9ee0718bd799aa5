package cpu

import (
	"fmt"
	"math"

	"github.com/weft-ml/weft/internal/tensor"
)

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.unary("addscalar", x, func(v float32) float32 { return v + scalar })
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.unary("mulscalar", x, func(v float32) float32 { return v * scalar })
}

// Exp computes the element-wise exponential.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Log computes the element-wise natural logarithm.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("log", x, func(v float32) float32 { return float32(math.Log(float64(v))) })
}

func (cpu *CPUBackend) unary(name string, x *tensor.RawTensor, f func(v float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}
	result := newRawOrPanic(name, x.Shape(), cpu.device)
	src := x.AsFloat32()
	dst := result.AsFloat32()
	for i := range dst {
		dst[i] = f(src[i])
	}
	return result
}
