// Copyright 2025 Weft ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers for training. Tied parameters are
// stepped once per storage per iteration.
package optim

import (
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/optim"
	"github.com/weft-ml/weft/internal/tensor"
)

// Optimizer updates parameters from a backward-pass gradient map.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig holds SGD hyperparameters.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer.
//
//	sgd := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01}, backend)
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig, backend B) *SGD[B] {
	return optim.NewSGD(params, config, backend)
}

// Adam is adaptive moment estimation with bias correction.
type Adam[B tensor.Backend] = optim.Adam[B]

// AdamConfig holds Adam hyperparameters.
type AdamConfig = optim.AdamConfig

// NewAdam creates an Adam optimizer.
//
//	adam := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001}, backend)
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig, backend B) *Adam[B] {
	return optim.NewAdam(params, config, backend)
}
