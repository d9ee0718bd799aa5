package tensor

// Backend is the interface compute backends implement. It carries the
// operation set the framework actually dispatches; activations and the
// fused loss are extension interfaces checked at the call site (see
// the nn package).
type Backend interface {
	// Element-wise binary operations with broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix multiplication: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations.
	AddScalar(x *RawTensor, scalar float32) *RawTensor
	MulScalar(x *RawTensor, scalar float32) *RawTensor

	// Element-wise math.
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor

	// Softmax along a dimension.
	Softmax(x *RawTensor, dim int) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	Mean(x *RawTensor) *RawTensor
	Argmax(x *RawTensor, dim int) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}

// ReLUBackend is implemented by backends with a native rectified linear
// unit. Callers fall back to composing primitive ops when absent.
type ReLUBackend interface {
	ReLU(x *RawTensor) *RawTensor
}

// SigmoidBackend is implemented by backends with a native logistic
// function.
type SigmoidBackend interface {
	Sigmoid(x *RawTensor) *RawTensor
}

// TanhBackend is implemented by backends with a native hyperbolic
// tangent.
type TanhBackend interface {
	Tanh(x *RawTensor) *RawTensor
}

// CrossEntropyBackend is implemented by backends with a fused
// softmax + negative log-likelihood loss. Logits are [batch, classes]
// float32, targets are [batch] int32 class indices, and the result is a
// scalar mean loss.
type CrossEntropyBackend interface {
	CrossEntropy(logits, targets *RawTensor) *RawTensor
}
