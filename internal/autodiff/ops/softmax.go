package ops

import "github.com/weft-ml/weft/internal/tensor"

// SoftmaxOp records output = softmax(x, dim).
//
// Backward, using the cached output y:
//
//	grad_x = y * (grad - sum(grad * y, dim, keepDim))
type SoftmaxOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	dim    int
}

// NewSoftmaxOp creates a SoftmaxOp.
func NewSoftmaxOp(input, output *tensor.RawTensor, dim int) *SoftmaxOp {
	return &SoftmaxOp{input: input, output: output, dim: dim}
}

// Backward computes the softmax Jacobian-vector product.
func (op *SoftmaxOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gy := backend.Mul(outputGrad, op.output)
	s := backend.SumDim(gy, op.dim, true)
	return []*tensor.RawTensor{backend.Mul(op.output, backend.Sub(outputGrad, s))}
}

// Inputs returns [x].
func (op *SoftmaxOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns softmax(x, dim).
func (op *SoftmaxOp) Output() *tensor.RawTensor { return op.output }
