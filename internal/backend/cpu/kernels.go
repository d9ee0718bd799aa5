package cpu

import "github.com/weft-ml/weft/internal/tensor"

// applyInplaceFloat32 computes a[i] = f(a[i], b[i]).
// Requires identical shapes and a unique buffer on a.
func applyInplaceFloat32(a, b []float32, f func(x, y float32) float32) {
	for i := range a {
		a[i] = f(a[i], b[i])
	}
}

// applyVectorizedFloat32 computes out[i] = f(a[i], b[i]) for identical shapes.
func applyVectorizedFloat32(out, a, b []float32, f func(x, y float32) float32) {
	for i := range out {
		out[i] = f(a[i], b[i])
	}
}

// applyBroadcastFloat32 computes out = f(a, b) with stride-0 broadcasting.
func applyBroadcastFloat32(out, a, b []float32, aShape, bShape, outShape tensor.Shape, f func(x, y float32) float32) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		out[i] = f(a[sourceIndex(i, outStrides, aStrides)], b[sourceIndex(i, outStrides, bStrides)])
	}
}

// broadcastStrides computes strides for reading inShape as outShape,
// with stride 0 on broadcast (size-1 or missing) dimensions.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)
	offset := outDim - len(inShape)
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}
	return strides
}

// sourceIndex maps a flat output index to the flat source index under
// broadcast-adjusted strides.
func sourceIndex(outIdx int, outStrides, inStrides []int) int {
	flat := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flat += coord * inStrides[i]
	}
	return flat
}
