package autodiff_test

import (
	"math"
	"testing"

	"github.com/weft-ml/weft/internal/autodiff"
	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/tensor"
)

type testBackend = *autodiff.Backend[*cpu.CPUBackend]

func floatEqual(a, b, epsilon float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

func TestTapeRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Error("new tape should not be recording")
	}

	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	y, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)

	// Operations outside recording are not taped.
	x.Add(y)
	if tape.NumOps() != 0 {
		t.Errorf("NumOps() = %d before recording, want 0", tape.NumOps())
	}

	tape.StartRecording()
	x.Add(y)
	x.Mul(y)
	if tape.NumOps() != 2 {
		t.Errorf("NumOps() = %d, want 2", tape.NumOps())
	}

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Errorf("NumOps() = %d after Clear, want 0", tape.NumOps())
	}
	if !tape.IsRecording() {
		t.Error("Clear should preserve the recording flag")
	}
	tape.StopRecording()
}

func TestBackward_Square(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{2, 3}, tensor.Shape{2}, backend)
	y := x.Mul(x)

	grads := autodiff.Backward(y, backend)
	backend.Tape().StopRecording()

	// d(x^2)/dx = 2x: both Mul inputs are the same storage, so the
	// two input gradients accumulate.
	grad := grads[x.Raw()]
	if grad == nil {
		t.Fatal("no gradient for x")
	}
	want := []float32{4, 6}
	for i, v := range grad.AsFloat32() {
		if !floatEqual(v, want[i], 1e-5) {
			t.Errorf("grad[%d] = %f, want %f", i, v, want[i])
		}
	}
}

func TestBackward_AddBroadcast(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, backend)
	bias, _ := tensor.FromSlice([]float32{10, 20}, tensor.Shape{1, 2}, backend)
	y := x.Add(bias).Sum()

	grads := autodiff.Backward(y, backend)
	backend.Tape().StopRecording()

	// The bias was broadcast over 3 rows, so its gradient is the
	// column sum of ones.
	grad := grads[bias.Raw()]
	if grad == nil {
		t.Fatal("no gradient for bias")
	}
	if !grad.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("bias grad shape = %v, want [1 2]", grad.Shape())
	}
	for i, v := range grad.AsFloat32() {
		if !floatEqual(v, 3, 1e-5) {
			t.Errorf("bias grad[%d] = %f, want 3", i, v)
		}
	}
}

func TestBackward_MatMul(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)
	y := a.MatMul(b).Sum()

	grads := autodiff.Backward(y, backend)
	backend.Tape().StopRecording()

	// dSum/dA = ones @ B^T.
	gradA := grads[a.Raw()].AsFloat32()
	wantA := []float32{11, 15, 11, 15}
	for i := range wantA {
		if !floatEqual(gradA[i], wantA[i], 1e-4) {
			t.Errorf("gradA[%d] = %f, want %f", i, gradA[i], wantA[i])
		}
	}

	// dSum/dB = A^T @ ones.
	gradB := grads[b.Raw()].AsFloat32()
	wantB := []float32{4, 4, 6, 6}
	for i := range wantB {
		if !floatEqual(gradB[i], wantB[i], 1e-4) {
			t.Errorf("gradB[%d] = %f, want %f", i, gradB[i], wantB[i])
		}
	}
}

func TestBackward_CrossEntropy(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	logits, _ := tensor.FromSlice([]float32{0, 0}, tensor.Shape{1, 2}, backend)
	targetsRaw, err := tensor.NewRaw(tensor.Shape{1}, tensor.Int32, backend.Device())
	if err != nil {
		t.Fatal(err)
	}
	targetsRaw.AsInt32()[0] = 0
	loss := backend.CrossEntropy(logits.Raw(), targetsRaw)

	lossTensor := tensor.New[float32, testBackend](loss, backend)
	grads := autodiff.Backward(lossTensor, backend)
	backend.Tape().StopRecording()

	// Loss of uniform logits is log(2).
	if !floatEqual(loss.AsFloat32()[0], float32(math.Log(2)), 1e-5) {
		t.Errorf("loss = %f, want ln(2)", loss.AsFloat32()[0])
	}

	// grad = softmax - onehot = [0.5-1, 0.5].
	grad := grads[logits.Raw()].AsFloat32()
	want := []float32{-0.5, 0.5}
	for i := range want {
		if !floatEqual(grad[i], want[i], 1e-5) {
			t.Errorf("grad[%d] = %f, want %f", i, grad[i], want[i])
		}
	}
}

func TestBackward_NoOpsPanics(t *testing.T) {
	backend := autodiff.New(cpu.New())

	defer func() {
		if recover() == nil {
			t.Error("Backward with an empty tape should panic")
		}
	}()
	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	autodiff.Backward(x, backend)
}

// TestGradientCheck_Composite compares autodiff gradients against
// central finite differences for f(x) = sum(exp(x) * x).
func TestGradientCheck_Composite(t *testing.T) {
	values := []float32{0.5, -0.3, 1.2, 0.0}

	f := func(xs []float32) float32 {
		var sum float64
		for _, v := range xs {
			sum += math.Exp(float64(v)) * float64(v)
		}
		return float32(sum)
	}

	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	x, _ := tensor.FromSlice(values, tensor.Shape{4}, backend)
	y := x.Exp().Mul(x).Sum()
	grads := autodiff.Backward(y, backend)
	backend.Tape().StopRecording()

	grad := grads[x.Raw()].AsFloat32()

	const h = 1e-3
	for i := range values {
		plus := append([]float32(nil), values...)
		minus := append([]float32(nil), values...)
		plus[i] += h
		minus[i] -= h
		numeric := (f(plus) - f(minus)) / (2 * h)

		if !floatEqual(grad[i], numeric, 1e-2) {
			t.Errorf("grad[%d] = %f, numeric %f", i, grad[i], numeric)
		}
	}
}

func TestBackward_Softmax(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	y := x.Softmax(1).Sum()

	grads := autodiff.Backward(y, backend)
	backend.Tape().StopRecording()

	// Softmax outputs sum to 1 for any input, so the gradient of
	// their sum is zero.
	grad := grads[x.Raw()].AsFloat32()
	for i, v := range grad {
		if !floatEqual(v, 0, 1e-5) {
			t.Errorf("grad[%d] = %f, want 0", i, v)
		}
	}
}
