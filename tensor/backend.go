// Copyright 2025 Weft ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/weft-ml/weft/internal/tensor"
)

// Backend is the interface compute backends implement.
type Backend = tensor.Backend

// Extension interfaces for operations outside the core backend set.
type (
	// ReLUBackend adds a native rectified linear unit.
	ReLUBackend = tensor.ReLUBackend
	// SigmoidBackend adds a native logistic function.
	SigmoidBackend = tensor.SigmoidBackend
	// TanhBackend adds a native hyperbolic tangent.
	TanhBackend = tensor.TanhBackend
	// CrossEntropyBackend adds a fused softmax + NLL loss.
	CrossEntropyBackend = tensor.CrossEntropyBackend
)
