// Package cpu implements the float32 CPU backend.
package cpu

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// CPUBackend implements tensor operations on the CPU. Kernels are
// float32; integer tensors appear only as labels and argmax results
// and never pass through arithmetic.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, func(x, y float32) float32 { return x / y })
}

// binary dispatches an element-wise binary op, choosing between the
// in-place, same-shape, and broadcasting paths.
func (cpu *CPUBackend) binary(name string, a, b *tensor.RawTensor, f func(x, y float32) float32) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtypes %s, %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			// In-place fast path; blocked under autodiff by ForceNonUnique.
			applyInplaceFloat32(a.AsFloat32(), b.AsFloat32(), f)
			return a
		}
		result := newRawOrPanic(name, outShape, cpu.device)
		applyVectorizedFloat32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f)
		return result
	}

	result := newRawOrPanic(name, outShape, cpu.device)
	applyBroadcastFloat32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, f)
	return result
}

func newRawOrPanic(name string, shape tensor.Shape, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, tensor.Float32, device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}
	return result
}
