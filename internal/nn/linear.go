package nn

import (
	"fmt"

	"github.com/weft-ml/weft/internal/tensor"
)

// Linear implements a fully connected layer: y = x @ W.T + b, with
// weight [out, in] and bias [out].
//
// A Linear can be declared two ways:
//
//	nn.NewLinear(784, 128, backend)   // eager: storage exists now
//	nn.NewLazyLinear(128, backend)    // lazy: input width unknown
//
// A lazy layer materializes its parameters on the first Forward call,
// inferring the input width from the batch it receives. Until then
// Parameters returns nothing and the registry skips the layer.
type Linear[B tensor.Backend] struct {
	inFeatures  int // 0 while lazy and unmaterialized
	outFeatures int
	weight      *Parameter[B]
	bias        *Parameter[B]
	backend     B
	tie         *tieGroup[B]
}

// tieGroup is the shared arena of layers tied together before
// materialization. The first layer to materialize creates the
// parameters; every other member adopts the same *Parameter values,
// which is what makes the storage one.
type tieGroup[B tensor.Backend] struct {
	inFeatures int
	weight     *Parameter[B]
	bias       *Parameter[B]
}

// NewLinear creates a Linear layer with both widths known. Weights use
// Xavier initialization, biases start at zero, and storage exists
// immediately.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	l := &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		backend:     backend,
	}
	l.createParameters(inFeatures)
	return l
}

// NewLazyLinear creates a Linear layer declared by output width only.
// The input width, and therefore the weight shape, is inferred from
// the first input.
func NewLazyLinear[B tensor.Backend](outFeatures int, backend B) *Linear[B] {
	return &Linear[B]{
		outFeatures: outFeatures,
		backend:     backend,
	}
}

// Materialized reports whether parameter storage exists yet.
func (l *Linear[B]) Materialized() bool {
	return l.weight != nil
}

// Materialize creates or adopts parameter storage for the given input
// width. Forward calls it implicitly; calling it directly lets a
// caller resolve shapes with a probe batch before training.
//
// For a member of a tie group, the first materialization creates the
// shared parameters and later members adopt them. A later member whose
// inferred input width disagrees fails with ErrShapeMismatch.
func (l *Linear[B]) Materialize(inFeatures int) error {
	if inFeatures <= 0 {
		return fmt.Errorf("linear: input width %d: %w", inFeatures, ErrShapeMismatch)
	}
	if l.weight != nil {
		if inFeatures != l.inFeatures {
			return fmt.Errorf("linear: input width %d, materialized with %d: %w",
				inFeatures, l.inFeatures, ErrShapeMismatch)
		}
		return nil
	}

	if l.tie != nil && l.tie.weight != nil {
		// Adopt the storage a tied peer already created.
		if inFeatures != l.tie.inFeatures {
			return fmt.Errorf("linear: input width %d, tied storage has %d: %w",
				inFeatures, l.tie.inFeatures, ErrShapeMismatch)
		}
		l.inFeatures = inFeatures
		l.weight = l.tie.weight
		l.bias = l.tie.bias
		return nil
	}

	l.createParameters(inFeatures)
	if l.tie != nil {
		l.tie.inFeatures = inFeatures
		l.tie.weight = l.weight
		l.tie.bias = l.bias
	}
	return nil
}

func (l *Linear[B]) createParameters(inFeatures int) {
	l.inFeatures = inFeatures
	weightShape := tensor.Shape{l.outFeatures, inFeatures}
	l.weight = NewParameter("weight", Xavier(inFeatures, l.outFeatures, weightShape, l.backend))
	l.bias = NewParameter("bias", Zeros(tensor.Shape{l.outFeatures}, l.backend))
}

// Forward computes y = x @ W.T + b for input [batch, in]. An
// unmaterialized layer infers in from the input first.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if l.weight == nil {
		if err := l.Materialize(inputShape[1]); err != nil {
			panic(fmt.Sprintf("Linear.Forward: %v", err))
		}
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	wT := l.weight.Tensor().T() // [in, out]
	output := input.MatMul(wT)  // [batch, out]

	b := l.bias.Tensor().Reshape(1, l.outFeatures)
	return output.Add(b)
}

// Parameters returns [weight, bias] once materialized, nothing before.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	if l.weight == nil {
		return nil
	}
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter, nil before materialization.
func (l *Linear[B]) Weight() *Parameter[B] { return l.weight }

// Bias returns the bias parameter, nil before materialization.
func (l *Linear[B]) Bias() *Parameter[B] { return l.bias }

// InFeatures returns the input width, 0 before materialization of a
// lazy layer.
func (l *Linear[B]) InFeatures() int { return l.inFeatures }

// OutFeatures returns the declared output width.
func (l *Linear[B]) OutFeatures() int { return l.outFeatures }

// tieWith joins this layer and peer into one tie group. Both must be
// unmaterialized and declare the same output width.
func (l *Linear[B]) tieWith(peer *Linear[B]) error {
	if l.weight != nil || peer.weight != nil {
		return ErrAlreadyMaterialized
	}
	if l.outFeatures != peer.outFeatures {
		return fmt.Errorf("tie: output widths %d and %d: %w",
			l.outFeatures, peer.outFeatures, ErrShapeMismatch)
	}

	switch {
	case l.tie == nil && peer.tie == nil:
		g := &tieGroup[B]{}
		l.tie = g
		peer.tie = g
	case l.tie != nil && peer.tie == nil:
		peer.tie = l.tie
	case l.tie == nil && peer.tie != nil:
		l.tie = peer.tie
	case l.tie != peer.tie:
		return fmt.Errorf("tie: layers already belong to different tie groups")
	}
	return nil
}
