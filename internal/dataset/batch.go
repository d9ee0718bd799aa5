package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/weft-ml/weft/internal/tensor"
)

// Batch is one mini-batch of training data as backend tensors.
type Batch[B tensor.Backend] struct {
	Images *tensor.Tensor[float32, B] // [size, features]
	Labels *tensor.Tensor[int32, B]   // [size]
	Size   int
}

// BatchOptions controls batch assembly.
type BatchOptions struct {
	Shuffle bool  // permute sample order before batching
	Seed    int64 // shuffle seed, for reproducible runs
	Workers int   // concurrent assembly workers, default GOMAXPROCS
}

// Batches splits the dataset into mini-batches of batchSize (the last
// batch may be smaller). Batch tensors are assembled concurrently with
// a bounded errgroup; the returned slice is complete and in order once
// the call returns, so training consumes it single-threaded.
func Batches[B tensor.Backend](ctx context.Context, data *Dataset, batchSize int, opts BatchOptions, backend B) ([]*Batch[B], error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size %d must be positive", batchSize)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	numSamples := data.NumSamples()
	indices := make([]int, numSamples)
	for i := range indices {
		indices[i] = i
	}
	if opts.Shuffle {
		rng := rand.New(rand.NewSource(opts.Seed))
		rng.Shuffle(numSamples, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	numBatches := (numSamples + batchSize - 1) / batchSize
	batches := make([]*Batch[B], numBatches)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for k := 0; k < numBatches; k++ {
		start := k * batchSize
		end := start + batchSize
		if end > numSamples {
			end = numSamples
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch, err := assembleBatch(data, indices[start:end], backend)
			if err != nil {
				return fmt.Errorf("batch %d: %w", k, err)
			}
			batches[k] = batch
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func assembleBatch[B tensor.Backend](data *Dataset, indices []int, backend B) (*Batch[B], error) {
	size := len(indices)

	imagesRaw, err := tensor.NewRaw(tensor.Shape{size, data.Features}, tensor.Float32, backend.Device())
	if err != nil {
		return nil, fmt.Errorf("creating images tensor: %w", err)
	}
	labelsRaw, err := tensor.NewRaw(tensor.Shape{size}, tensor.Int32, backend.Device())
	if err != nil {
		return nil, fmt.Errorf("creating labels tensor: %w", err)
	}

	imagesData := imagesRaw.AsFloat32()
	labelsData := labelsRaw.AsInt32()
	for row, idx := range indices {
		copy(imagesData[row*data.Features:(row+1)*data.Features], data.Images[idx])
		labelsData[row] = data.Labels[idx]
	}

	return &Batch[B]{
		Images: tensor.New[float32, B](imagesRaw, backend),
		Labels: tensor.New[int32, B](labelsRaw, backend),
		Size:   size,
	}, nil
}
