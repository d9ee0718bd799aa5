package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// IDX magic numbers: 0x00000803 for uint8 rank-3 image files,
// 0x00000801 for uint8 rank-1 label files.
const (
	idxImageMagic = 2051
	idxLabelMagic = 2049
)

// ReadIDXImages reads an IDX image file (the MNIST on-disk format).
//
// Layout, all integers big-endian:
//
//	magic number: 0x00000803
//	image count, row count, column count: 4 bytes each
//	pixel data: one unsigned byte per pixel
func ReadIDXImages(filename string) (images [][]byte, rows, cols int, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()

	var magic uint32
	if err := binary.Read(file, binary.BigEndian, &magic); err != nil {
		return nil, 0, 0, fmt.Errorf("reading magic: %w", err)
	}
	if magic != idxImageMagic {
		return nil, 0, 0, fmt.Errorf("invalid image magic: got %d, want %d", magic, idxImageMagic)
	}

	var numImages, numRows, numCols uint32
	if err := binary.Read(file, binary.BigEndian, &numImages); err != nil {
		return nil, 0, 0, err
	}
	if err := binary.Read(file, binary.BigEndian, &numRows); err != nil {
		return nil, 0, 0, err
	}
	if err := binary.Read(file, binary.BigEndian, &numCols); err != nil {
		return nil, 0, 0, err
	}

	imageSize := int(numRows * numCols)
	images = make([][]byte, numImages)
	for i := range images {
		images[i] = make([]byte, imageSize)
		if _, err := io.ReadFull(file, images[i]); err != nil {
			return nil, 0, 0, fmt.Errorf("reading image %d: %w", i, err)
		}
	}

	return images, int(numRows), int(numCols), nil
}

// ReadIDXLabels reads an IDX label file.
//
// Layout:
//
//	magic number: 0x00000801
//	label count: 4 bytes
//	label data: one unsigned byte per label
func ReadIDXLabels(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var magic uint32
	if err := binary.Read(file, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if magic != idxLabelMagic {
		return nil, fmt.Errorf("invalid label magic: got %d, want %d", magic, idxLabelMagic)
	}

	var numLabels uint32
	if err := binary.Read(file, binary.BigEndian, &numLabels); err != nil {
		return nil, err
	}

	labels := make([]byte, numLabels)
	if _, err := io.ReadFull(file, labels); err != nil {
		return nil, fmt.Errorf("reading labels: %w", err)
	}
	return labels, nil
}

// LoadMNIST loads the MNIST train or test split from IDX files in
// dataDir. Pixels are normalized to [0, 1]. maxSamples of 0 loads
// everything.
//
// Expected files: train-images-idx3-ubyte / train-labels-idx1-ubyte,
// or t10k-images-idx3-ubyte / t10k-labels-idx1-ubyte for the test set.
func LoadMNIST(dataDir string, train bool, maxSamples int) (*Dataset, error) {
	imageFile := filepath.Join(dataDir, "t10k-images-idx3-ubyte")
	labelFile := filepath.Join(dataDir, "t10k-labels-idx1-ubyte")
	if train {
		imageFile = filepath.Join(dataDir, "train-images-idx3-ubyte")
		labelFile = filepath.Join(dataDir, "train-labels-idx1-ubyte")
	}

	imagesRaw, rows, cols, err := ReadIDXImages(imageFile)
	if err != nil {
		return nil, fmt.Errorf("loading images: %w", err)
	}
	labelsRaw, err := ReadIDXLabels(labelFile)
	if err != nil {
		return nil, fmt.Errorf("loading labels: %w", err)
	}
	if len(imagesRaw) != len(labelsRaw) {
		return nil, fmt.Errorf("image count %d != label count %d", len(imagesRaw), len(labelsRaw))
	}

	numSamples := len(imagesRaw)
	if maxSamples > 0 && numSamples > maxSamples {
		numSamples = maxSamples
	}
	features := rows * cols

	images := make([][]float32, numSamples)
	labels := make([]int32, numSamples)
	for i := 0; i < numSamples; i++ {
		images[i] = make([]float32, features)
		for j, pixel := range imagesRaw[i] {
			images[i][j] = float32(pixel) / 255.0
		}
		labels[i] = int32(labelsRaw[i])
	}

	return &Dataset{
		Images:   images,
		Labels:   labels,
		Features: features,
		Classes:  10,
	}, nil
}
