package nn_test

import (
	"testing"

	"github.com/weft-ml/weft/internal/autodiff"
	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/tensor"
)

type testBackend = *autodiff.Backend[*cpu.CPUBackend]

func newTestBackend() testBackend {
	return autodiff.New(cpu.New())
}

func floatEqual(a, b, epsilon float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

func TestParameter(t *testing.T) {
	backend := newTestBackend()

	data, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	param := nn.NewParameter("weight", data)

	if param.Name() != "weight" {
		t.Errorf("Name() = %s, want weight", param.Name())
	}
	if param.Tensor() != data {
		t.Error("Tensor() should return the original tensor")
	}
	if param.Grad() != nil {
		t.Error("Grad() should be nil before any backward pass")
	}

	grad, _ := tensor.FromSlice([]float32{0.1, 0.2, 0.3}, tensor.Shape{3}, backend)
	param.SetGrad(grad)
	if param.Grad() != grad {
		t.Error("SetGrad() should set the gradient")
	}

	param.ZeroGrad()
	if param.Grad() != nil {
		t.Error("ZeroGrad() should clear the gradient")
	}
}

func TestLinear_Eager(t *testing.T) {
	backend := newTestBackend()

	layer := nn.NewLinear(10, 5, backend)

	if !layer.Materialized() {
		t.Fatal("eager layer should be materialized at construction")
	}
	if layer.InFeatures() != 10 {
		t.Errorf("InFeatures() = %d, want 10", layer.InFeatures())
	}
	if layer.OutFeatures() != 5 {
		t.Errorf("OutFeatures() = %d, want 5", layer.OutFeatures())
	}

	if got, want := layer.Weight().Tensor().Shape(), (tensor.Shape{5, 10}); !got.Equal(want) {
		t.Errorf("weight shape = %v, want %v", got, want)
	}
	if got, want := layer.Bias().Tensor().Shape(), (tensor.Shape{5}); !got.Equal(want) {
		t.Errorf("bias shape = %v, want %v", got, want)
	}

	// Bias starts at zero.
	for i, v := range layer.Bias().Tensor().Data() {
		if v != 0 {
			t.Errorf("bias[%d] = %f, want 0", i, v)
		}
	}
}

func TestLinear_LazyMaterialization(t *testing.T) {
	backend := newTestBackend()

	layer := nn.NewLazyLinear(3, backend)

	if layer.Materialized() {
		t.Fatal("lazy layer should not be materialized before the first input")
	}
	if len(layer.Parameters()) != 0 {
		t.Fatal("unmaterialized layer should expose no parameters")
	}

	input, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 4}, backend)
	output := layer.Forward(input)

	if !layer.Materialized() {
		t.Fatal("layer should materialize on first Forward")
	}
	if layer.InFeatures() != 4 {
		t.Errorf("InFeatures() = %d, want 4 (inferred from input)", layer.InFeatures())
	}
	if got, want := layer.Weight().Tensor().Shape(), (tensor.Shape{3, 4}); !got.Equal(want) {
		t.Errorf("weight shape = %v, want %v", got, want)
	}
	if got, want := output.Shape(), (tensor.Shape{2, 3}); !got.Equal(want) {
		t.Errorf("output shape = %v, want %v", got, want)
	}
	if len(layer.Parameters()) != 2 {
		t.Errorf("Parameters() = %d params, want 2", len(layer.Parameters()))
	}
}

func TestLinear_MaterializeTwice(t *testing.T) {
	backend := newTestBackend()

	layer := nn.NewLazyLinear(3, backend)
	if err := layer.Materialize(4); err != nil {
		t.Fatalf("Materialize(4): %v", err)
	}

	// Same width is a no-op.
	if err := layer.Materialize(4); err != nil {
		t.Fatalf("repeated Materialize(4): %v", err)
	}

	// A different width cannot re-shape existing storage.
	if err := layer.Materialize(5); err == nil {
		t.Fatal("Materialize(5) after Materialize(4) should fail")
	}
}

func TestLinear_ForwardValues(t *testing.T) {
	backend := newTestBackend()

	layer := nn.NewLinear(2, 2, backend)

	// Overwrite the random init with known values.
	w := layer.Weight().Tensor().Data()
	copy(w, []float32{1, 2, 3, 4}) // [[1,2],[3,4]]
	b := layer.Bias().Tensor().Data()
	copy(b, []float32{10, 20})

	input, _ := tensor.FromSlice([]float32{1, 1}, tensor.Shape{1, 2}, backend)
	output := layer.Forward(input)

	// y = x @ W.T + b = [1+2+10, 3+4+20]
	got := output.Data()
	want := []float32{13, 27}
	for i := range want {
		if !floatEqual(got[i], want[i], 1e-5) {
			t.Errorf("output[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestSequential_ForwardAndSlots(t *testing.T) {
	backend := newTestBackend()

	model := nn.NewSequential[testBackend](
		nn.NewLazyLinear(8, backend),
		nn.NewReLU[testBackend](),
		nn.NewLazyLinear(1, backend),
	)

	if model.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", model.Len())
	}

	input := tensor.Randn[float32](tensor.Shape{2, 4}, backend)
	output := model.Forward(input)

	if got, want := output.Shape(), (tensor.Shape{2, 1}); !got.Equal(want) {
		t.Errorf("output shape = %v, want %v", got, want)
	}

	if _, ok := model.At(0).(*nn.Linear[testBackend]); !ok {
		t.Error("At(0) should be the first Linear")
	}
}
