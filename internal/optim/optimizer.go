// Package optim implements optimization algorithms for training.
//
// Provided optimizers:
//   - SGD: stochastic gradient descent with optional momentum
//   - Adam: adaptive moment estimation with bias correction
//
// Both deduplicate the parameter list by storage identity, so a
// parameter reachable through several tied slots is stepped exactly
// once per iteration with its already-summed gradient.
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01}, backend)
//	for range epochs {
//	    optimizer.ZeroGrad()
//	    backend.Tape().Clear()
//	    backend.Tape().StartRecording()
//	    loss := lossFn.Forward(model.Forward(x), y)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//	}
package optim

import (
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/tensor"
)

// Optimizer updates parameters from a gradient map produced by the
// backward pass.
type Optimizer interface {
	// Step applies one update to every managed parameter that has an
	// entry in the gradient map. Parameters without a gradient are
	// skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears the stored gradient of every managed parameter.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// dedupParameters keeps the first parameter per underlying storage.
// Sequential.Parameters reports tied storage once per slot; stepping it
// once per alias would apply the update several times.
func dedupParameters[B tensor.Backend](params []*nn.Parameter[B]) []*nn.Parameter[B] {
	seen := make(map[*tensor.RawTensor]struct{}, len(params))
	unique := make([]*nn.Parameter[B], 0, len(params))
	for _, p := range params {
		raw := p.Tensor().Raw()
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}

// getGradient returns the gradient recorded for the parameter's
// storage, or nil if the parameter was not part of the graph.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
