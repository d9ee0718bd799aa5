// Package dataset provides in-memory image classification datasets and
// mini-batch assembly for training.
package dataset

import (
	"fmt"
	"math/rand"
)

// Dataset holds flattened images and integer class labels in memory.
type Dataset struct {
	Images   [][]float32 // [samples][features], normalized to [0, 1]
	Labels   []int32     // [samples]
	Features int         // elements per image
	Classes  int         // number of distinct labels
}

// NumSamples returns the number of samples.
func (d *Dataset) NumSamples() int {
	return len(d.Images)
}

// Validate checks internal consistency.
func (d *Dataset) Validate() error {
	if len(d.Images) != len(d.Labels) {
		return fmt.Errorf("dataset: %d images but %d labels", len(d.Images), len(d.Labels))
	}
	for i, img := range d.Images {
		if len(img) != d.Features {
			return fmt.Errorf("dataset: image %d has %d features, want %d", i, len(img), d.Features)
		}
	}
	for i, label := range d.Labels {
		if label < 0 || int(label) >= d.Classes {
			return fmt.Errorf("dataset: label %d out of range [0, %d) at sample %d", label, d.Classes, i)
		}
	}
	return nil
}

// Split divides the dataset into train and validation parts. The
// validation part holds the trailing validationRatio fraction; shuffle
// first if ordering matters.
func (d *Dataset) Split(validationRatio float64) (train, validation *Dataset) {
	splitIdx := int(float64(d.NumSamples()) * (1.0 - validationRatio))
	if splitIdx < 0 {
		splitIdx = 0
	}
	if splitIdx > d.NumSamples() {
		splitIdx = d.NumSamples()
	}
	train = &Dataset{
		Images:   d.Images[:splitIdx],
		Labels:   d.Labels[:splitIdx],
		Features: d.Features,
		Classes:  d.Classes,
	}
	validation = &Dataset{
		Images:   d.Images[splitIdx:],
		Labels:   d.Labels[splitIdx:],
		Features: d.Features,
		Classes:  d.Classes,
	}
	return train, validation
}

// Shuffle permutes samples in place with the given source.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(d.NumSamples(), func(i, j int) {
		d.Images[i], d.Images[j] = d.Images[j], d.Images[i]
		d.Labels[i], d.Labels[j] = d.Labels[j], d.Labels[i]
	})
}
