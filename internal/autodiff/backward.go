package autodiff

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// BackwardCapable is a backend that can run a backward pass. Backend[B]
// implements it.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// GetTape returns the gradient tape.
func (b *Backend[B]) GetTape() *GradientTape { return b.tape }

// Backward seeds the given tensor with a ones gradient and walks the
// backend's tape in reverse. The result maps each RawTensor the gradient
// reached to its accumulated gradient; look up a parameter's entry with
// its Raw() pointer.
//
//	ad := autodiff.New(cpu.New())
//	ad.Tape().StartRecording()
//	y := x.Mul(x)
//	grads := autodiff.Backward(y, ad)
//	dx := grads[x.Raw()]
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget Tape().StartRecording()?)")
	}

	outputGrad, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: creating output gradient: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		data := outputGrad.AsFloat32()
		for i := range data {
			data[i] = 1
		}
	case tensor.Float64:
		data := outputGrad.AsFloat64()
		for i := range data {
			data[i] = 1
		}
	default:
		panic(fmt.Sprintf("backward: unsupported dtype %s", t.DType()))
	}

	return tape.Backward(outputGrad, backend)
}
