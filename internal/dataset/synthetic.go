package dataset

import "math/rand"

// Synthetic generates a separable classification dataset: each class is
// a Gaussian blob around its own center pattern. Not realistic image
// data, but a small model can fit it, which is what tests and demos
// need.
func Synthetic(numSamples, features, classes int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	// One center per class, spread across the feature space.
	centers := make([][]float32, classes)
	for c := range centers {
		centers[c] = make([]float32, features)
		for j := range centers[c] {
			centers[c][j] = rng.Float32()
		}
	}

	images := make([][]float32, numSamples)
	labels := make([]int32, numSamples)
	for i := range images {
		c := i % classes
		labels[i] = int32(c)
		images[i] = make([]float32, features)
		for j := range images[i] {
			v := centers[c][j] + float32(rng.NormFloat64())*0.05
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			images[i][j] = v
		}
	}

	return &Dataset{
		Images:   images,
		Labels:   labels,
		Features: features,
		Classes:  classes,
	}
}
