package ops

import "github.com/weft-ml/weft/internal/tensor"

// ReLUOp records output = max(0, x).
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the gradient where the input was non-positive.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mask := fill(op.input.Shape(), 0, backend.Device())
	in := op.input.AsFloat32()
	m := mask.AsFloat32()
	for i, v := range in {
		if v > 0 {
			m[i] = 1
		}
	}
	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

// Inputs returns [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

// SigmoidOp records output = σ(x) = 1 / (1 + exp(-x)).
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a SigmoidOp.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward uses the cached output: dσ/dx = σ(x)(1 - σ(x)).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	ones := fill(op.output.Shape(), 1, backend.Device())
	deriv := backend.Mul(op.output, backend.Sub(ones, op.output))
	return []*tensor.RawTensor{backend.Mul(outputGrad, deriv)}
}

// Inputs returns [x].
func (op *SigmoidOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns σ(x).
func (op *SigmoidOp) Output() *tensor.RawTensor { return op.output }

// TanhOp records output = tanh(x).
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a TanhOp.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward uses the cached output: d(tanh x)/dx = 1 - tanh²(x).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	ones := fill(op.output.Shape(), 1, backend.Device())
	deriv := backend.Sub(ones, backend.Mul(op.output, op.output))
	return []*tensor.RawTensor{backend.Mul(outputGrad, deriv)}
}

// Inputs returns [x].
func (op *TanhOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns tanh(x).
func (op *TanhOp) Output() *tensor.RawTensor { return op.output }
