// Package ops defines the differentiable operations recorded on the
// gradient tape. Each operation keeps pointers to its input and output
// storage and knows how to turn an output gradient into input
// gradients during the reverse pass.
package ops

import "github.com/weft-ml/weft/internal/tensor"

// Operation is one node of the recorded computation.
//
// Inputs and Output return the raw storage the forward pass touched;
// the tape keys gradient accumulation on those pointers. That pointer
// identity is also what gives tied parameters their semantics: a
// parameter referenced from two layer slots appears as the same input
// pointer in two operations, so its gradient contributions sum.
type Operation interface {
	// Backward computes gradients for the inputs given the gradient of
	// the output, one entry per input (nil when no gradient flows).
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the operation's input storage.
	Inputs() []*tensor.RawTensor

	// Output returns the operation's output storage.
	Output() *tensor.RawTensor
}
