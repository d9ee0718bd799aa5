// Package nn implements neural network modules for the Weft ML Framework.
//
// The package centers on a parameter registry over composed layers:
//   - Module interface: base interface for all components
//   - Parameter: named, shape-tagged trainable storage
//   - Linear: dense layer, eager or lazily materialized
//   - Sequential: ordered container with weight tying (Tie)
//   - NamedParameters / ParameterByPath: registry access by traversal
//     or dotted path
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/weft-ml/weft/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose into larger architectures:
//
//	model := nn.NewSequential[*cpu.CPUBackend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[*cpu.CPUBackend](),
//	    nn.NewLinear(128, 10, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the module output for the given input. Shape
	// misuse panics; lazily declared layers materialize their
	// parameters on the first call.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns the module's trainable parameters in
	// declaration order. Modules without parameters, and lazy layers
	// that have not materialized yet, return an empty slice.
	Parameters() []*Parameter[B]
}

// container is implemented by modules that hold ordered child modules.
// The registry descends through it to build dotted parameter paths.
type container[B tensor.Backend] interface {
	Children() []Module[B]
}
