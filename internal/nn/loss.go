package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// MSELoss computes mean squared error: mean((predictions - targets)^2).
// Useful for regression targets.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates an MSE loss function.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward computes the scalar loss. Predictions and targets must share
// a shape.
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("MSELoss: shape %v vs %v", predictions.Shape(), targets.Shape()))
	}
	diff := predictions.Sub(targets)
	return diff.Mul(diff).Mean()
}

// CrossEntropyLoss computes the fused softmax + negative log-likelihood
// loss for classification.
//
// Logits are [batch, classes] float32; targets are [batch] int32 class
// indices. The result is the scalar mean loss over the batch.
type CrossEntropyLoss[B tensor.Backend] struct{}

// NewCrossEntropyLoss creates a cross-entropy loss function.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{}
}

// Forward computes the scalar loss. The backend must implement
// tensor.CrossEntropyBackend.
func (c *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	backend := logits.Backend()
	ceb, ok := any(backend).(tensor.CrossEntropyBackend)
	if !ok {
		panic("CrossEntropyLoss: backend must implement the CrossEntropy operation")
	}
	return tensor.New[float32, B](ceb.CrossEntropy(logits.Raw(), targets.Raw()), backend)
}
