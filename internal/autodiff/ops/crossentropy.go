package ops

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// CrossEntropyOp records the fused softmax + negative log-likelihood loss.
// Targets are class indices and carry no gradient, so Inputs reports only
// the logits.
//
// Backward: grad_logits = g * (softmax(logits) - onehot(targets)) / batch,
// where g is the scalar upstream gradient.
type CrossEntropyOp struct {
	logits  *tensor.RawTensor
	targets *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewCrossEntropyOp creates a CrossEntropyOp.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, targets: targets, output: output}
}

// Backward computes the gradient with respect to the logits.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	if op.logits.DType() != tensor.Float32 || op.targets.DType() != tensor.Int32 {
		panic(fmt.Sprintf("autodiff: cross-entropy backward expects float32 logits and int32 targets, got %v and %v",
			op.logits.DType(), op.targets.DType()))
	}

	shape := op.logits.Shape()
	batch, classes := shape[0], shape[1]
	logits := op.logits.AsFloat32()
	targets := op.targets.AsInt32()
	g := outputGrad.AsFloat32()[0]

	grad, err := tensor.NewRaw(shape.Clone(), tensor.Float32, op.logits.Device())
	if err != nil {
		panic(err)
	}
	out := grad.AsFloat32()

	scale := g / float32(batch)
	for i := 0; i < batch; i++ {
		row := logits[i*classes : (i+1)*classes]

		maxVal := row[0]
		for k := 1; k < classes; k++ {
			if row[k] > maxVal {
				maxVal = row[k]
			}
		}
		var sum float32
		for k := 0; k < classes; k++ {
			sum += exp32(row[k] - maxVal)
		}

		dst := out[i*classes : (i+1)*classes]
		for k := 0; k < classes; k++ {
			dst[k] = exp32(row[k]-maxVal) / sum * scale
		}
		dst[targets[i]] -= scale
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns [logits]; targets are constants.
func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.logits} }

// Output returns the scalar mean loss.
func (op *CrossEntropyOp) Output() *tensor.RawTensor { return op.output }
