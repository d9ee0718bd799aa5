package nn

import (
	"github.com/weft-ml/weft/internal/tensor"
)

// ReLU applies the element-wise function f(x) = max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU. The backend must implement tensor.ReLUBackend.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if rb, ok := any(backend).(tensor.ReLUBackend); ok {
		return tensor.New[float32, B](rb.ReLU(input.Raw()), backend)
	}
	panic("ReLU: backend must implement the ReLU operation")
}

// Parameters returns nil; ReLU has no trainable parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sigmoid applies the logistic function, squashing values into (0, 1).
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies the logistic function. The backend must implement
// tensor.SigmoidBackend.
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if sb, ok := any(backend).(tensor.SigmoidBackend); ok {
		return tensor.New[float32, B](sb.Sigmoid(input.Raw()), backend)
	}
	panic("Sigmoid: backend must implement the Sigmoid operation")
}

// Parameters returns nil; Sigmoid has no trainable parameters.
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}

// Tanh applies the hyperbolic tangent, squashing values into (-1, 1).
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return &Tanh[B]{}
}

// Forward applies tanh. The backend must implement tensor.TanhBackend.
func (t *Tanh[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if tb, ok := any(backend).(tensor.TanhBackend); ok {
		return tensor.New[float32, B](tb.Tanh(input.Raw()), backend)
	}
	panic("Tanh: backend must implement the Tanh operation")
}

// Parameters returns nil; Tanh has no trainable parameters.
func (t *Tanh[B]) Parameters() []*Parameter[B] {
	return nil
}
