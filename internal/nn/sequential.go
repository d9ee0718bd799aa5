package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Sequential chains modules so each output feeds the next input.
//
// Child slots are addressed by index, which is also the path segment
// the registry uses: slot 2's weight is "2.weight", and a nested
// Sequential produces nested paths like "1.0.bias".
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a Sequential over the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

// Forward applies every module in order.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns all parameters from all slots in order. A tied
// parameter appears once per slot that references it; use
// NamedParameters for storage-unique enumeration.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Children returns the child modules in slot order.
func (s *Sequential[B]) Children() []Module[B] {
	return s.modules
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of slots.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// At returns the module in the given slot. Panics when out of range.
func (s *Sequential[B]) At(index int) Module[B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.At: index out of bounds")
	}
	return s.modules[index]
}

// Tie declares that slots a and b share parameter storage. After the
// layers materialize, a value written through either slot reads back
// through both, and backward passes accumulate a single summed
// gradient for each shared parameter.
//
// Both slots must be unmaterialized Linear layers with the same
// declared output width. A slot index outside the sequence fails with
// ErrNotFound, mismatched widths with ErrShapeMismatch, and a slot
// whose storage already exists with ErrAlreadyMaterialized.
func (s *Sequential[B]) Tie(a, b int) error {
	if a < 0 || a >= len(s.modules) {
		return fmt.Errorf("tie: slot %d: %w", a, ErrNotFound)
	}
	if b < 0 || b >= len(s.modules) {
		return fmt.Errorf("tie: slot %d: %w", b, ErrNotFound)
	}
	if a == b {
		return fmt.Errorf("tie: slot %d tied to itself", a)
	}

	la, ok := s.modules[a].(*Linear[B])
	if !ok {
		return fmt.Errorf("tie: slot %d (%T) does not support tying", a, s.modules[a])
	}
	lb, ok := s.modules[b].(*Linear[B])
	if !ok {
		return fmt.Errorf("tie: slot %d (%T) does not support tying", b, s.modules[b])
	}

	if err := la.tieWith(lb); err != nil {
		return fmt.Errorf("tie slots %d and %d: %w", a, b, err)
	}
	return nil
}
