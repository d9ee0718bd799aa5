package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-ml/weft/internal/autodiff"
	"github.com/weft-ml/weft/internal/nn"
	"github.com/weft-ml/weft/internal/tensor"
)

// twoLayerNet builds LazyLinear(8) -> ReLU -> LazyLinear(1) and
// materializes it with a (2, 4) batch.
func twoLayerNet(t *testing.T, backend testBackend) *nn.Sequential[testBackend] {
	t.Helper()
	model := nn.NewSequential[testBackend](
		nn.NewLazyLinear(8, backend),
		nn.NewReLU[testBackend](),
		nn.NewLazyLinear(1, backend),
	)
	input := tensor.Randn[float32](tensor.Shape{2, 4}, backend)
	model.Forward(input)
	return model
}

func TestNamedParameters_TwoLayerNet(t *testing.T) {
	backend := newTestBackend()
	model := twoLayerNet(t, backend)

	var names []string
	var shapes []tensor.Shape
	for name, p := range nn.NamedParameters[testBackend](model) {
		names = append(names, name)
		shapes = append(shapes, p.Tensor().Shape())
	}

	require.Equal(t, []string{"0.weight", "0.bias", "2.weight", "2.bias"}, names)
	assert.Equal(t, tensor.Shape{8, 4}, shapes[0])
	assert.Equal(t, tensor.Shape{8}, shapes[1])
	assert.Equal(t, tensor.Shape{1, 8}, shapes[2])
	assert.Equal(t, tensor.Shape{1}, shapes[3])
}

func TestNamedParameters_Restartable(t *testing.T) {
	backend := newTestBackend()
	model := twoLayerNet(t, backend)

	seq := nn.NamedParameters[testBackend](model)

	collect := func() []string {
		var names []string
		for name := range seq {
			names = append(names, name)
		}
		return names
	}

	first := collect()
	second := collect()
	require.Equal(t, first, second, "iteration should restart from the beginning")
}

func TestNamedParameters_EarlyStop(t *testing.T) {
	backend := newTestBackend()
	model := twoLayerNet(t, backend)

	var got []string
	for name := range nn.NamedParameters[testBackend](model) {
		got = append(got, name)
		if len(got) == 2 {
			break
		}
	}
	require.Equal(t, []string{"0.weight", "0.bias"}, got)
}

func TestNamedParameters_Nested(t *testing.T) {
	backend := newTestBackend()

	inner := nn.NewSequential[testBackend](
		nn.NewLinear(4, 4, backend),
	)
	model := nn.NewSequential[testBackend](
		nn.NewLinear(2, 4, backend),
		inner,
	)

	var names []string
	for name := range nn.NamedParameters[testBackend](model) {
		names = append(names, name)
	}
	require.Equal(t, []string{"0.weight", "0.bias", "1.0.weight", "1.0.bias"}, names)
}

func TestNamedParameters_TiedAppearsOnce(t *testing.T) {
	backend := newTestBackend()

	model := nn.NewSequential[testBackend](
		nn.NewLazyLinear(4, backend),
		nn.NewLazyLinear(4, backend),
	)
	require.NoError(t, model.Tie(0, 1))

	input := tensor.Randn[float32](tensor.Shape{2, 4}, backend)
	model.Forward(input)

	var names []string
	for name := range nn.NamedParameters[testBackend](model) {
		names = append(names, name)
	}
	// Slot 1 aliases slot 0's storage, so only the first path appears.
	require.Equal(t, []string{"0.weight", "0.bias"}, names)
}

func TestParameterByPath(t *testing.T) {
	backend := newTestBackend()
	model := twoLayerNet(t, backend)

	p, err := nn.ParameterByPath[testBackend](model, "2.weight")
	require.NoError(t, err)
	assert.Equal(t, "weight", p.Name())
	assert.Equal(t, tensor.Shape{1, 8}, p.Tensor().Shape())
	assert.Nil(t, p.Grad(), "gradient should be nil before backward")

	for _, path := range []string{"9.weight", "0.gamma", "foo.weight", "0.1.weight", "1.weight"} {
		_, err := nn.ParameterByPath[testBackend](model, path)
		assert.ErrorIs(t, err, nn.ErrNotFound, "path %q", path)
	}
}

func TestTie_AliasWriteVisibility(t *testing.T) {
	backend := newTestBackend()

	model := nn.NewSequential[testBackend](
		nn.NewLazyLinear(4, backend),
		nn.NewLazyLinear(4, backend),
	)
	require.NoError(t, model.Tie(0, 1))

	input := tensor.Randn[float32](tensor.Shape{2, 4}, backend)
	model.Forward(input)

	a, err := nn.ParameterByPath[testBackend](model, "0.weight")
	require.NoError(t, err)
	b, err := nn.ParameterByPath[testBackend](model, "1.weight")
	require.NoError(t, err)

	require.Same(t, a.Tensor().Raw(), b.Tensor().Raw(), "tied slots share storage")

	a.Tensor().Data()[3] = 42.5
	assert.Equal(t, float32(42.5), b.Tensor().Data()[3], "write through one alias reads back through the other")
}

func TestTie_SevenSlotSequence(t *testing.T) {
	backend := newTestBackend()

	model := nn.NewSequential[testBackend](
		nn.NewLazyLinear(5, backend),
		nn.NewLazyLinear(5, backend),
		nn.NewLazyLinear(5, backend),
		nn.NewLazyLinear(5, backend),
		nn.NewLazyLinear(5, backend),
		nn.NewLazyLinear(5, backend),
		nn.NewLazyLinear(2, backend),
	)
	require.NoError(t, model.Tie(2, 4))

	input := tensor.Randn[float32](tensor.Shape{2, 3}, backend)
	model.Forward(input)

	w2, err := nn.ParameterByPath[testBackend](model, "2.weight")
	require.NoError(t, err)
	w4, err := nn.ParameterByPath[testBackend](model, "4.weight")
	require.NoError(t, err)

	w2.Tensor().Data()[0] = -7.25
	assert.Equal(t, float32(-7.25), w4.Tensor().Data()[0])
}

func TestTie_Errors(t *testing.T) {
	backend := newTestBackend()

	t.Run("slot out of range", func(t *testing.T) {
		model := nn.NewSequential[testBackend](
			nn.NewLazyLinear(4, backend),
			nn.NewLazyLinear(4, backend),
		)
		assert.ErrorIs(t, model.Tie(0, 5), nn.ErrNotFound)
		assert.ErrorIs(t, model.Tie(-1, 1), nn.ErrNotFound)
	})

	t.Run("mismatched output widths", func(t *testing.T) {
		model := nn.NewSequential[testBackend](
			nn.NewLazyLinear(4, backend),
			nn.NewLazyLinear(8, backend),
		)
		assert.ErrorIs(t, model.Tie(0, 1), nn.ErrShapeMismatch)
	})

	t.Run("already materialized", func(t *testing.T) {
		model := nn.NewSequential[testBackend](
			nn.NewLazyLinear(4, backend),
			nn.NewLazyLinear(4, backend),
		)
		input := tensor.Randn[float32](tensor.Shape{2, 4}, backend)
		model.Forward(input)
		assert.ErrorIs(t, model.Tie(0, 1), nn.ErrAlreadyMaterialized)
	})

	t.Run("eager layers", func(t *testing.T) {
		model := nn.NewSequential[testBackend](
			nn.NewLinear(4, 4, backend),
			nn.NewLinear(4, 4, backend),
		)
		assert.ErrorIs(t, model.Tie(0, 1), nn.ErrAlreadyMaterialized)
	})

	t.Run("non-linear slot", func(t *testing.T) {
		model := nn.NewSequential[testBackend](
			nn.NewLazyLinear(4, backend),
			nn.NewReLU[testBackend](),
		)
		assert.Error(t, model.Tie(0, 1))
	})
}

func TestTie_MaterializeWidthMismatch(t *testing.T) {
	backend := newTestBackend()

	model := nn.NewSequential[testBackend](
		nn.NewLazyLinear(4, backend),
		nn.NewLazyLinear(4, backend),
	)
	require.NoError(t, model.Tie(0, 1))

	first, ok := model.At(0).(*nn.Linear[testBackend])
	require.True(t, ok)
	second, ok := model.At(1).(*nn.Linear[testBackend])
	require.True(t, ok)

	require.NoError(t, first.Materialize(6))

	// The tied storage was created for input width 6; an input of
	// width 3 cannot adopt it.
	assert.ErrorIs(t, second.Materialize(3), nn.ErrShapeMismatch)
	require.NoError(t, second.Materialize(6))
	require.Same(t, first.Weight(), second.Weight())
}

// TestTie_GradientSum checks the tied gradient against an untied
// control: two separate layers initialized with identical values
// produce two separate gradients whose sum must equal the single
// gradient of the tied pair.
func TestTie_GradientSum(t *testing.T) {
	backend := newTestBackend()

	weights := []float32{0.5, -1.0, 0.25, 2.0, 1.5, -0.75, 0.1, -0.2, 0.9, 1.1, -1.3, 0.4, 0.6, -0.5, 0.3, 0.8}
	biases := []float32{0.1, -0.1, 0.2, -0.2}
	inputData := []float32{1, 2, -1, 0.5, -0.5, 1.5, 2.5, -2}

	buildTied := func() *nn.Sequential[testBackend] {
		m := nn.NewSequential[testBackend](
			nn.NewLazyLinear(4, backend),
			nn.NewLazyLinear(4, backend),
		)
		require.NoError(t, m.Tie(0, 1))
		return m
	}
	buildControl := func() *nn.Sequential[testBackend] {
		return nn.NewSequential[testBackend](
			nn.NewLazyLinear(4, backend),
			nn.NewLazyLinear(4, backend),
		)
	}

	runBackward := func(m *nn.Sequential[testBackend]) map[*tensor.RawTensor]*tensor.RawTensor {
		input, err := tensor.FromSlice(inputData, tensor.Shape{2, 4}, backend)
		require.NoError(t, err)

		// Materialize, then overwrite the random init so both
		// networks compute the same function.
		m.Forward(input)
		for _, p := range m.Parameters() {
			switch p.Name() {
			case "weight":
				copy(p.Tensor().Data(), weights)
			case "bias":
				copy(p.Tensor().Data(), biases)
			}
		}

		backend.Tape().Clear()
		backend.Tape().StartRecording()
		defer backend.Tape().StopRecording()

		loss := m.Forward(input).Sum()
		return autodiff.Backward(loss, backend)
	}

	tied := buildTied()
	tiedGrads := runBackward(tied)
	tiedWeight, err := nn.ParameterByPath[testBackend](tied, "0.weight")
	require.NoError(t, err)
	tiedGrad := tiedGrads[tiedWeight.Tensor().Raw()]
	require.NotNil(t, tiedGrad, "tied weight should receive a gradient")

	control := buildControl()
	controlGrads := runBackward(control)
	w0, err := nn.ParameterByPath[testBackend](control, "0.weight")
	require.NoError(t, err)
	w1, err := nn.ParameterByPath[testBackend](control, "1.weight")
	require.NoError(t, err)
	g0 := controlGrads[w0.Tensor().Raw()]
	g1 := controlGrads[w1.Tensor().Raw()]
	require.NotNil(t, g0)
	require.NotNil(t, g1)

	td := tiedGrad.AsFloat32()
	d0 := g0.AsFloat32()
	d1 := g1.AsFloat32()
	require.Len(t, td, len(d0))
	for i := range td {
		assert.InDelta(t, float64(d0[i]+d1[i]), float64(td[i]), 1e-4,
			"tied gradient element %d should be the sum of the per-path gradients", i)
	}
}
