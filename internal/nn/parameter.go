package nn

import (
	"github.com/weft-ml/weft/internal/tensor"
)

// Parameter is a named, trainable tensor.
//
// Identity is the underlying storage: two layers tied together hold the
// same *Parameter, so a write through either alias is visible through
// both, and the backward pass accumulates one summed gradient for it.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
	grad   *tensor.Tensor[float32, B]
}

// NewParameter creates a parameter around an initialized tensor.
// The name is the local name within the owning module ("weight",
// "bias"); the registry prefixes it with the module path.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the local parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter value.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient computed by the most recent backward pass,
// or nil if none has run since creation or the last ZeroGrad.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad stores a gradient. Called after the backward pass.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the stored gradient. Call before each training
// iteration so stale gradients never leak into the next step.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}
