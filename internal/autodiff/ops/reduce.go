package ops

import "github.com/weft-ml/weft/internal/tensor"

// SumOp records output = sum(x) over all elements.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward broadcasts the scalar gradient over the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{fill(op.input.Shape(), outputGrad.AsFloat32()[0], backend.Device())}
}

// Inputs returns [x].
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns sum(x).
func (op *SumOp) Output() *tensor.RawTensor { return op.output }

// MeanOp records output = mean(x) over all elements.
type MeanOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMeanOp creates a MeanOp.
func NewMeanOp(input, output *tensor.RawTensor) *MeanOp {
	return &MeanOp{input: input, output: output}
}

// Backward spreads grad/n over the input shape.
func (op *MeanOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	n := float32(op.input.NumElements())
	return []*tensor.RawTensor{fill(op.input.Shape(), outputGrad.AsFloat32()[0]/n, backend.Device())}
}

// Inputs returns [x].
func (op *MeanOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns mean(x).
func (op *MeanOp) Output() *tensor.RawTensor { return op.output }

// SumDimOp records output = sum(x, dim).
type SumDimOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a SumDimOp.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{input: input, output: output, dim: dim, keepDim: keepDim}
}

// Backward broadcasts the gradient back along the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := outputGrad
	if !op.keepDim {
		// Restore the reduced dimension so broadcasting lines up.
		withDim := op.input.Shape().Clone()
		withDim[op.dim] = 1
		grad = backend.Reshape(grad, withDim)
	}

	// Broadcast to the input shape via addition with zeros.
	zeros := fill(op.input.Shape(), 0, backend.Device())
	return []*tensor.RawTensor{backend.Add(zeros, grad)}
}

// Inputs returns [x].
func (op *SumDimOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns sum(x, dim).
func (op *SumDimOp) Output() *tensor.RawTensor { return op.output }
