package tensor_test

import (
	"testing"

	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/tensor"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape tensor.Shape
		want  int
	}{
		{tensor.Shape{}, 1},
		{tensor.Shape{5}, 5},
		{tensor.Shape{2, 3}, 6},
		{tensor.Shape{2, 3, 4}, 24},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (tensor.Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (tensor.Shape{2, 0}).Validate(); err == nil {
		t.Error("zero dimension should be invalid")
	}
	if err := (tensor.Shape{-1, 3}).Validate(); err == nil {
		t.Error("negative dimension should be invalid")
	}
}

func TestShapeComputeStrides(t *testing.T) {
	strides := tensor.Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("strides = %v, want %v", strides, want)
			break
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      tensor.Shape
		want      tensor.Shape
		broadcast bool
		wantErr   bool
	}{
		{"equal", tensor.Shape{2, 3}, tensor.Shape{2, 3}, tensor.Shape{2, 3}, false, false},
		{"row vector", tensor.Shape{3, 2}, tensor.Shape{1, 2}, tensor.Shape{3, 2}, true, false},
		{"missing dims", tensor.Shape{4, 3}, tensor.Shape{3}, tensor.Shape{4, 3}, true, false},
		{"scalar", tensor.Shape{2, 2}, tensor.Shape{}, tensor.Shape{2, 2}, true, false},
		{"incompatible", tensor.Shape{2, 3}, tensor.Shape{2, 4}, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := tensor.BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("result = %v, want %v", got, tt.want)
			}
			if broadcast != tt.broadcast {
				t.Errorf("needsBroadcast = %v, want %v", broadcast, tt.broadcast)
			}
		})
	}
}

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}
	if !x.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("shape = %v, want [2 3]", x.Shape())
	}
	if x.At(1, 2) != 6 {
		t.Errorf("At(1,2) = %f, want 6", x.At(1, 2))
	}

	_, err = tensor.FromSlice([]float32{1, 2}, tensor.Shape{3}, backend)
	if err == nil {
		t.Error("length mismatch should error")
	}
}

func TestAtSetItem(t *testing.T) {
	backend := cpu.New()
	x := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)

	x.Set(7.5, 0, 1)
	if x.At(0, 1) != 7.5 {
		t.Errorf("At(0,1) = %f, want 7.5", x.At(0, 1))
	}
	if x.Data()[1] != 7.5 {
		t.Errorf("Data()[1] = %f, want 7.5", x.Data()[1])
	}

	s, _ := tensor.FromSlice([]float32{42}, tensor.Shape{1}, backend)
	if s.Item() != 42 {
		t.Errorf("Item() = %f, want 42", s.Item())
	}
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	ones := tensor.Ones[float32](tensor.Shape{3}, backend)
	for i, v := range ones.Data() {
		if v != 1 {
			t.Errorf("ones[%d] = %f, want 1", i, v)
		}
	}

	full := tensor.Full[float32](tensor.Shape{2}, 3.5, backend)
	if full.Data()[0] != 3.5 || full.Data()[1] != 3.5 {
		t.Errorf("Full = %v, want [3.5 3.5]", full.Data())
	}

	labels := tensor.Zeros[int32](tensor.Shape{4}, backend)
	if labels.DType() != tensor.Int32 {
		t.Errorf("dtype = %s, want int32", labels.DType())
	}
}

// TestRawCloneAliases checks the buffer-sharing contract: Clone shares
// storage, Copy does not, and RawTensor pointer identity distinguishes
// the two views even when they alias.
func TestRawCloneAliases(t *testing.T) {
	backend := cpu.New()
	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)

	view := x.Raw().Clone()
	if view == x.Raw() {
		t.Error("Clone should return a distinct RawTensor")
	}
	x.Data()[0] = 99
	if view.AsFloat32()[0] != 99 {
		t.Error("Clone should share the underlying buffer")
	}

	dup := x.Clone()
	dup.Data()[0] = -1
	if x.Data()[0] != 99 {
		t.Error("Tensor.Clone should be an independent copy")
	}
}

func TestForceNonUnique(t *testing.T) {
	backend := cpu.New()
	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)

	if !x.Raw().IsUnique() {
		t.Fatal("fresh tensor should be unique")
	}

	restore := x.Raw().ForceNonUnique()
	if x.Raw().IsUnique() {
		t.Error("ForceNonUnique should make IsUnique report false")
	}
	restore()
	if !x.Raw().IsUnique() {
		t.Error("restore func should bring the refcount back")
	}
}
