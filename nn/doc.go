// Copyright 2025 Weft ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and the parameter registry.
//
// # Basic Usage
//
//	backend := autodiff.New(cpu.New())
//
//	model := nn.NewSequential[B](
//	    nn.NewLazyLinear(128, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLazyLinear(10, backend),
//	)
//
//	output := model.Forward(input) // lazy layers materialize here
//
// # Parameter Registry
//
// Enumerate parameters with dotted paths, one entry per storage:
//
//	for name, p := range nn.NamedParameters[B](model) {
//	    fmt.Println(name, p.Tensor().Shape())
//	}
//
// Or resolve one directly:
//
//	w, err := nn.ParameterByPath[B](model, "2.weight")
//
// # Weight Tying
//
// Tie declares that two slots share parameter storage. It must happen
// before either slot materializes:
//
//	model.Tie(0, 2)
//
// After materialization a value written through either slot is visible
// through both, and the backward pass sums the gradient contributions
// of every usage path into one gradient.
//
// # Loss Functions
//
//	criterion := nn.NewCrossEntropyLoss[B]()
//	loss := criterion.Forward(logits, labels)
package nn
