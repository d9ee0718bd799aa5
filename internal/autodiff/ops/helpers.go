package ops

import (
	"math"

	"github.com/weft-ml/weft/internal/tensor"
)

func exp32(x float32) float32 { return float32(math.Exp(float64(x))) }

// reduceBroadcast shrinks a gradient back to the shape of an input
// that was broadcast during the forward pass, summing along every
// broadcast dimension.
//
//	Forward:  a[3,1] + b[3,4] -> c[3,4]
//	Backward: grad_c[3,4] -> grad_a[3,1] (summed along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(targetShape) {
		// Clone so accumulation never aliases a gradient shared with
		// another input of the same op.
		return grad.Clone()
	}

	result := grad

	// Sum away leading dimensions the input never had.
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Sum dimensions where the input was size 1.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && result.Shape()[d] > 1 {
			result = backend.SumDim(result, d, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// fill creates a float32 tensor of the given shape with every element
// set to value.
func fill(shape tensor.Shape, value float32, device tensor.Device) *tensor.RawTensor {
	t, err := tensor.NewRaw(shape, tensor.Float32, device)
	if err != nil {
		panic(err)
	}
	if value != 0 {
		data := t.AsFloat32()
		for i := range data {
			data[i] = value
		}
	}
	return t
}
